package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"messageu/internal/domain"
)

const (
	// NameFieldSize is the fixed, null-terminated username field.
	NameFieldSize = 255

	// ListEntrySize is one clients-list record: id followed by name.
	ListEntrySize = domain.ClientIDSize + NameFieldSize // 271

	// RegisterPayloadSize is the register request payload: name and
	// public key.
	RegisterPayloadSize = NameFieldSize + domain.PublicKeySize // 415

	// RegisterOKSize is the register response payload: the assigned id.
	RegisterOKSize = domain.ClientIDSize // 16

	// PubKeyOKSize is the public-key response payload: id and key.
	PubKeyOKSize = domain.ClientIDSize + domain.PublicKeySize // 176

	// SentOKSize is the message-sent response payload: destination id and
	// assigned message id.
	SentOKSize = domain.ClientIDSize + 4 // 20

	// SendPrefixSize is the fixed prefix of a send-message payload before
	// the content bytes: destination id, message type, content size.
	SendPrefixSize = domain.ClientIDSize + 1 + 4 // 21

	// PendingEntrySize is the fixed per-message header inside a pending
	// response: sender id, message id, message type, content size.
	PendingEntrySize = domain.ClientIDSize + 4 + 1 + 4 // 25
)

// EncodeRegister builds a complete register request frame. Registration is
// the one request sent with a zero client id; the relay assigns one in the
// response.
func EncodeRegister(name string, pub domain.PublicKey) []byte {
	h := RequestHeader{Version: Version, Code: CodeRegister, PayloadSize: RegisterPayloadSize}
	frame := h.Encode(make([]byte, 0, RequestHeaderSize+RegisterPayloadSize))
	var nameField [NameFieldSize]byte
	copy(nameField[:], name)
	frame = append(frame, nameField[:]...)
	frame = append(frame, pub[:]...)
	return frame
}

// EncodeList builds a clients-list request frame. The payload is empty.
func EncodeList(self domain.ClientID) []byte {
	h := RequestHeader{ClientID: self, Version: Version, Code: CodeList}
	return h.Encode(make([]byte, 0, RequestHeaderSize))
}

// EncodePublicKey builds a get-public-key request frame for target.
func EncodePublicKey(self, target domain.ClientID) []byte {
	h := RequestHeader{ClientID: self, Version: Version, Code: CodePublicKey, PayloadSize: domain.ClientIDSize}
	frame := h.Encode(make([]byte, 0, RequestHeaderSize+domain.ClientIDSize))
	return append(frame, target[:]...)
}

// EncodeSendMessage builds a send-message request frame with the given
// message type and content. Content may be empty (symmetric key requests).
func EncodeSendMessage(self, dest domain.ClientID, msgType domain.MessageType, content []byte) []byte {
	payloadSize := SendPrefixSize + len(content)
	h := RequestHeader{ClientID: self, Version: Version, Code: CodeSendMsg, PayloadSize: uint32(payloadSize)}
	frame := h.Encode(make([]byte, 0, RequestHeaderSize+payloadSize))
	frame = append(frame, dest[:]...)
	frame = append(frame, byte(msgType))
	frame = binary.LittleEndian.AppendUint32(frame, uint32(len(content)))
	return append(frame, content...)
}

// EncodePending builds a fetch-pending-messages request frame. The payload
// is empty.
func EncodePending(self domain.ClientID) []byte {
	h := RequestHeader{ClientID: self, Version: Version, Code: CodePending}
	return h.Encode(make([]byte, 0, RequestHeaderSize))
}

// ParseRegisterOK extracts the assigned client id from a register response
// payload.
func ParseRegisterOK(payload []byte) (domain.ClientID, error) {
	if len(payload) != RegisterOKSize {
		return domain.ClientID{}, fmt.Errorf("%w: register payload is %d bytes, expected %d", domain.ErrProtocol, len(payload), RegisterOKSize)
	}
	var id domain.ClientID
	copy(id[:], payload)
	return id, nil
}

// ListEntry is one record of a clients-list response.
type ListEntry struct {
	ID   domain.ClientID
	Name string
}

// ParseList decodes a clients-list payload. The payload must be a whole
// number of 271-byte records; an empty payload yields an empty slice.
func ParseList(payload []byte) ([]ListEntry, error) {
	if len(payload)%ListEntrySize != 0 {
		return nil, fmt.Errorf("%w: clients list is corrupted (%d bytes)", domain.ErrProtocol, len(payload))
	}
	entries := make([]ListEntry, 0, len(payload)/ListEntrySize)
	for off := 0; off < len(payload); off += ListEntrySize {
		var e ListEntry
		copy(e.ID[:], payload[off:off+domain.ClientIDSize])
		e.Name = cString(payload[off+domain.ClientIDSize : off+ListEntrySize])
		entries = append(entries, e)
	}
	return entries, nil
}

// ParsePubKeyOK extracts the echoed client id and public key from a
// get-public-key response payload.
func ParsePubKeyOK(payload []byte) (domain.ClientID, domain.PublicKey, error) {
	if len(payload) != PubKeyOKSize {
		return domain.ClientID{}, domain.PublicKey{}, fmt.Errorf("%w: public key payload is %d bytes, expected %d", domain.ErrProtocol, len(payload), PubKeyOKSize)
	}
	var id domain.ClientID
	var pub domain.PublicKey
	copy(id[:], payload[:domain.ClientIDSize])
	copy(pub[:], payload[domain.ClientIDSize:])
	return id, pub, nil
}

// ParseSentOK extracts the echoed destination id and the relay-assigned
// message id from a message-sent response payload.
func ParseSentOK(payload []byte) (domain.ClientID, uint32, error) {
	if len(payload) != SentOKSize {
		return domain.ClientID{}, 0, fmt.Errorf("%w: sent payload is %d bytes, expected %d", domain.ErrProtocol, len(payload), SentOKSize)
	}
	var id domain.ClientID
	copy(id[:], payload[:domain.ClientIDSize])
	return id, binary.LittleEndian.Uint32(payload[domain.ClientIDSize:]), nil
}

// PendingEntry is the fixed header of one message inside a pending
// response. Size bytes of content follow it in the stream.
type PendingEntry struct {
	Sender    domain.ClientID
	MessageID uint32
	Type      domain.MessageType
	Size      uint32
}

// ParsePendingEntry decodes one per-message header from the front of b.
func ParsePendingEntry(b []byte) (PendingEntry, error) {
	if len(b) < PendingEntrySize {
		return PendingEntry{}, fmt.Errorf("%w: pending entry truncated (%d bytes)", domain.ErrProtocol, len(b))
	}
	var e PendingEntry
	copy(e.Sender[:], b[:domain.ClientIDSize])
	e.MessageID = binary.LittleEndian.Uint32(b[16:20])
	e.Type = domain.MessageType(b[20])
	e.Size = binary.LittleEndian.Uint32(b[21:25])
	return e, nil
}

// EncodePendingEntry appends the packed per-message header to dst. Used by
// the test relay.
func EncodePendingEntry(dst []byte, e PendingEntry) []byte {
	dst = append(dst, e.Sender[:]...)
	dst = binary.LittleEndian.AppendUint32(dst, e.MessageID)
	dst = append(dst, byte(e.Type))
	return binary.LittleEndian.AppendUint32(dst, e.Size)
}

// cString returns b up to its first null byte. The wire name fields are
// null-terminated inside a fixed 255-byte field.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
