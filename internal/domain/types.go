package domain

import (
	"encoding/hex"

	"github.com/google/uuid"
)

const (
	// ClientIDSize is the length of a relay-assigned client identifier.
	ClientIDSize = 16

	// PublicKeySize is the fixed length of a serialized RSA public key on
	// the wire and in the peer directory.
	PublicKeySize = 160

	// SymmetricKeySize is the length of a per-peer AES-128 session key.
	SymmetricKeySize = 16

	// MaxUsernameLen is the longest username accepted for registration.
	// The wire field is 255 bytes and null-terminated, so one byte is
	// reserved for the terminator.
	MaxUsernameLen = 254
)

// ClientID is the opaque 16-byte identifier the relay assigns at
// registration. The zero value is the "unset" sentinel.
type ClientID [ClientIDSize]byte

// ParseClientID decodes a 32-hex-character identifier, the form used in
// me.info.
func ParseClientID(s string) (ClientID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ClientID{}, err
	}
	return ClientID(u), nil
}

// Hex returns the identifier as 32 lowercase hex characters.
func (id ClientID) Hex() string { return hex.EncodeToString(id[:]) }

// IsZero reports whether the identifier is the unset sentinel.
func (id ClientID) IsZero() bool { return id == ClientID{} }

// Slice returns the identifier as a []byte.
func (id ClientID) Slice() []byte { return id[:] }

// PublicKey is a serialized RSA public key, fixed at 160 bytes.
type PublicKey [PublicKeySize]byte

// Slice returns the key as a []byte.
func (p PublicKey) Slice() []byte { return p[:] }

// SymmetricKey is a 16-byte AES-128 session key.
type SymmetricKey [SymmetricKeySize]byte

// Slice returns the key as a []byte.
func (k SymmetricKey) Slice() []byte { return k[:] }

// Peer is one entry of the peer directory. PublicKey and SessionKey are nil
// until retrieved or negotiated; PublicKey must be known before a session
// key may be sent, and SessionKey must be known before text or file content
// can be encrypted or decrypted for this peer.
type Peer struct {
	ID         ClientID
	Name       string
	PublicKey  *PublicKey
	SessionKey *SymmetricKey
}

// HasPublicKey reports whether the peer's long-term key is known.
func (p Peer) HasPublicKey() bool { return p.PublicKey != nil }

// HasSessionKey reports whether a session key has been negotiated.
func (p Peer) HasSessionKey() bool { return p.SessionKey != nil }

// Identity is the self record: created on first successful registration,
// loaded from me.info on later startups, never mutated afterwards.
// PrivateKeyDER holds the serialized RSA private key.
type Identity struct {
	ID            ClientID
	Name          string
	PublicKey     PublicKey
	PrivateKeyDER []byte
}
