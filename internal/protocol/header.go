package protocol

import (
	"encoding/binary"
	"fmt"

	"messageu/internal/domain"
)

// Version is the protocol version sent in every request header. Responses
// carry the server's version, which is not validated.
const Version = 2

const (
	// RequestHeaderSize is the packed size of a request header.
	RequestHeaderSize = domain.ClientIDSize + 1 + 2 + 4 // 23

	// ResponseHeaderSize is the packed size of a response header.
	ResponseHeaderSize = 1 + 2 + 4 // 7
)

// Code is a request or response code.
type Code uint16

const (
	CodeRegister   Code = 1000
	CodeList       Code = 1001
	CodePublicKey  Code = 1002
	CodeSendMsg    Code = 1003
	CodePending    Code = 1004
	CodeRegisterOK Code = 2000
	CodeListOK     Code = 2001
	CodePubKeyOK   Code = 2002
	CodeSentOK     Code = 2003
	CodePendingOK  Code = 2004
	CodeError      Code = 9000
)

// RequestHeader is the 23-byte header prefixed to every request.
type RequestHeader struct {
	ClientID    domain.ClientID
	Version     uint8
	Code        Code
	PayloadSize uint32
}

// Encode appends the packed header to dst and returns the extended slice.
func (h RequestHeader) Encode(dst []byte) []byte {
	dst = append(dst, h.ClientID[:]...)
	dst = append(dst, h.Version)
	dst = binary.LittleEndian.AppendUint16(dst, uint16(h.Code))
	dst = binary.LittleEndian.AppendUint32(dst, h.PayloadSize)
	return dst
}

// DecodeRequestHeader parses a packed request header.
func DecodeRequestHeader(b []byte) (RequestHeader, error) {
	if len(b) < RequestHeaderSize {
		return RequestHeader{}, fmt.Errorf("%w: request header truncated (%d bytes)", domain.ErrProtocol, len(b))
	}
	var h RequestHeader
	copy(h.ClientID[:], b[:domain.ClientIDSize])
	h.Version = b[16]
	h.Code = Code(binary.LittleEndian.Uint16(b[17:19]))
	h.PayloadSize = binary.LittleEndian.Uint32(b[19:23])
	return h, nil
}

// ResponseHeader is the 7-byte header prefixed to every response.
type ResponseHeader struct {
	Version     uint8
	Code        Code
	PayloadSize uint32
}

// Encode appends the packed header to dst and returns the extended slice.
func (h ResponseHeader) Encode(dst []byte) []byte {
	dst = append(dst, h.Version)
	dst = binary.LittleEndian.AppendUint16(dst, uint16(h.Code))
	dst = binary.LittleEndian.AppendUint32(dst, h.PayloadSize)
	return dst
}

// DecodeResponseHeader parses a packed response header.
func DecodeResponseHeader(b []byte) (ResponseHeader, error) {
	if len(b) < ResponseHeaderSize {
		return ResponseHeader{}, fmt.Errorf("%w: response header truncated (%d bytes)", domain.ErrProtocol, len(b))
	}
	return ResponseHeader{
		Version:     b[0],
		Code:        Code(binary.LittleEndian.Uint16(b[1:3])),
		PayloadSize: binary.LittleEndian.Uint32(b[3:7]),
	}, nil
}

// ValidateResponse checks a response header against the expected code. A
// wantPayload >= 0 enforces the exact payload size; a negative wantPayload
// accepts any size, including zero.
func ValidateResponse(h ResponseHeader, want Code, wantPayload int) error {
	if h.Code == CodeError {
		return fmt.Errorf("%w: relay returned error code %d", domain.ErrServer, CodeError)
	}
	if h.Code != want {
		return fmt.Errorf("%w: unexpected response code %d, expected %d", domain.ErrProtocol, h.Code, want)
	}
	if wantPayload >= 0 && h.PayloadSize != uint32(wantPayload) {
		return fmt.Errorf("%w: unexpected payload size %d, expected %d", domain.ErrProtocol, h.PayloadSize, wantPayload)
	}
	return nil
}
