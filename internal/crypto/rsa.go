package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"fmt"

	"messageu/internal/domain"
)

const (
	rsaBits = 1024

	// CiphertextSize is the fixed length of an RSA-OAEP ciphertext.
	CiphertextSize = rsaBits / 8 // 128

	// MaxOAEPPlaintext is the largest plaintext a single OAEP operation
	// accepts: modulus minus twice the SHA-1 digest minus two.
	MaxOAEPPlaintext = CiphertextSize - 2*sha1.Size - 2 // 86
)

// KeyPair is a long-term RSA identity key pair.
type KeyPair struct {
	priv *rsa.PrivateKey
}

// GenerateKeyPair creates a fresh 1024-bit RSA key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, rsaBits)
	if err != nil {
		return nil, fmt.Errorf("%w: generate keypair: %v", domain.ErrCrypto, err)
	}
	return &KeyPair{priv: priv}, nil
}

// KeyPairFromDER loads a key pair from its PKCS#1 private-key serialization.
func KeyPairFromDER(der []byte) (*KeyPair, error) {
	priv, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %v", domain.ErrCrypto, err)
	}
	return &KeyPair{priv: priv}, nil
}

// PrivateDER returns the variable-length PKCS#1 serialization of the
// private key.
func (k *KeyPair) PrivateDER() []byte {
	return x509.MarshalPKCS1PrivateKey(k.priv)
}

// Public returns the 160-byte public-key serialization: PKCS#1 DER padded
// with trailing zeros to the fixed field width.
func (k *KeyPair) Public() (domain.PublicKey, error) {
	der := x509.MarshalPKCS1PublicKey(&k.priv.PublicKey)
	var pub domain.PublicKey
	if len(der) > len(pub) {
		return pub, fmt.Errorf("%w: public key serialization is %d bytes, exceeds %d", domain.ErrCrypto, len(der), len(pub))
	}
	copy(pub[:], der)
	return pub, nil
}

// Decrypt reverses an OAEP/SHA-1 encryption made with this key pair's
// public key.
func (k *KeyPair) Decrypt(ciphertext []byte) ([]byte, error) {
	plain, err := rsa.DecryptOAEP(sha1.New(), rand.Reader, k.priv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: rsa decrypt: %v", domain.ErrCrypto, err)
	}
	return plain, nil
}

// EncryptWithPublic OAEP/SHA-1 encrypts plain for the holder of pub. The
// plaintext must not exceed MaxOAEPPlaintext bytes; the result is always
// CiphertextSize bytes.
func EncryptWithPublic(pub domain.PublicKey, plain []byte) ([]byte, error) {
	der, err := trimDER(pub[:])
	if err != nil {
		return nil, err
	}
	rsaPub, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: parse public key: %v", domain.ErrCrypto, err)
	}
	ct, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, rsaPub, plain, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: rsa encrypt: %v", domain.ErrCrypto, err)
	}
	return ct, nil
}

// trimDER strips the zero padding behind the DER object at the front of b.
// The public-key field is fixed at 160 bytes on the wire while the DER
// itself is shorter, and the stdlib parsers reject trailing data.
func trimDER(b []byte) ([]byte, error) {
	if len(b) < 2 || b[0] != 0x30 {
		return nil, fmt.Errorf("%w: malformed public key", domain.ErrCrypto)
	}
	var total int
	switch l := int(b[1]); {
	case l < 0x80:
		total = 2 + l
	case l == 0x81 && len(b) >= 3:
		total = 3 + int(b[2])
	case l == 0x82 && len(b) >= 4:
		total = 4 + int(b[2])<<8 + int(b[3])
	default:
		return nil, fmt.Errorf("%w: malformed public key length", domain.ErrCrypto)
	}
	if total > len(b) {
		return nil, fmt.Errorf("%w: public key truncated", domain.ErrCrypto)
	}
	return b[:total], nil
}
