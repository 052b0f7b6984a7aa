// Package domain defines the core value types shared across the MessageU
// client: client identifiers, key material, peer and self records, the
// pending-message variant, and the error kinds every layer classifies
// against.
//
// All types are plain values. Fixed-size material (ids, public keys, session
// keys) uses array types to avoid accidental reallocation; optional per-peer
// key state is expressed with pointers.
package domain
