// Package crypto wraps the two cipher suites of the MessageU protocol
// behind thin adapters returning domain types.
//
// Contents
//
//   - RSA-1024 key pairs with OAEP/SHA-1 encryption, used only to transport
//     16-byte session keys. Public keys serialize to exactly 160 bytes;
//     ciphertexts are a fixed 128 bytes.
//   - AES-128 in CBC mode with PKCS#7 padding and a zero IV, used for all
//     bulk content. The zero IV is a known weakness preserved for wire
//     compatibility with the deployed relay.
//   - Session key generation from a cryptographically strong source.
package crypto
