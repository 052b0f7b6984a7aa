// Package relay implements the TCP client side of the MessageU relay
// protocol.
//
// The relay frames everything in 1024-byte packets: outgoing data is padded
// with zeros to the next packet boundary, and incoming data is consumed a
// whole packet at a time with any excess in the final packet discarded. One
// request/response pair rides on each connection; a fresh connection is
// opened per logical exchange and closed afterwards, on success and on
// every failure path alike.
//
// Fixed-size responses use RoundTrip. Variable-size responses (clients
// list, pending messages) use RoundTripStream, which parses the 7-byte
// response header out of the first packet and streams the remaining payload
// packet by packet into a single owned buffer.
package relay
