// Package directory holds the in-memory roster of known peers: id,
// username and, once learned, the peer's public key and negotiated session
// key.
//
// The roster is rebuilt wholesale from each clients-list response, but key
// material carries over for ids present both before and after a rebuild, so
// a simple list refresh never discards a negotiated session. The self id is
// never stored as a peer.
package directory
