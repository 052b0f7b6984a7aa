// Package protocol implements the MessageU wire codec: fixed-layout,
// packed, little-endian request and response frames.
//
// A request frame is a 23-byte header (client id, version, code, payload
// size) followed by a per-code payload. A response frame is a 7-byte header
// (version, code, payload size) followed by the payload. Every multi-byte
// integer is encoded field by field with binary.LittleEndian; buffers are
// never byte-swapped.
package protocol
