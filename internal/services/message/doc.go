// Package message implements the outbound send paths (symmetric key
// request, symmetric key transport, text, file) and the pending-message
// processor.
//
// Sends enforce the key-state ordering: a peer's public key must be known
// before a session key may go out, and a session key must be negotiated
// before text or file content can be encrypted. The pending processor
// decodes a heterogeneous record stream best-effort: a bad key transport,
// an unknown message type or a failed file write is skipped with a warning,
// and text or file content that cannot be decrypted is returned as an
// unreadable message; neither desynchronizes the rest of the batch. A record
// declaring more content than remains ends the batch with an error.
// Warnings from a partially successful fetch are kept in a buffer the
// caller drains via Warnings.
package message
