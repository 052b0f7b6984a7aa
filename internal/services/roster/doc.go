// Package roster refreshes the peer directory from the relay and retrieves
// peers' long-term public keys.
//
// A refresh streams the variable-size clients list and rebuilds the
// directory; key material for ids that survive the rebuild is preserved by
// the directory itself. A public-key fetch is a fixed-size exchange whose
// echoed client id is checked against the request to catch relay mix-ups.
package roster
