// Package store persists the client's two configuration files.
//
//   - me.info: the self identity. Line one is the username, line two the
//     client id as 32 lowercase hex characters, and every remaining line is
//     base64 of the private key, concatenated and decoded together. Written
//     atomically via a temp file and rename.
//   - server.info: a single "host:port" line naming the relay.
//
// The self record exists iff me.info exists and parses; a missing file is
// reported distinctly from a corrupt one.
package store
