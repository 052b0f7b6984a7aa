package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"messageu/internal/domain"
)

// NewSessionKey fills a fresh 16-byte AES key from a cryptographically
// strong source.
func NewSessionKey() (domain.SymmetricKey, error) {
	var key domain.SymmetricKey
	if _, err := rand.Read(key[:]); err != nil {
		return key, fmt.Errorf("%w: generate session key: %v", domain.ErrCrypto, err)
	}
	return key, nil
}

// EncryptCBC encrypts plain with AES-128-CBC, PKCS#7 padding and a zero IV.
// The IV is fixed by the protocol for compatibility with the deployed
// relay; a new deployment should move to an authenticated mode.
func EncryptCBC(key domain.SymmetricKey, plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: aes: %v", domain.ErrCrypto, err)
	}
	padded := pkcs7Pad(plain, aes.BlockSize)
	var iv [aes.BlockSize]byte
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(padded, padded)
	return padded, nil
}

// DecryptCBC reverses EncryptCBC. It fails on empty or misaligned input and
// on invalid padding.
func DecryptCBC(key domain.SymmetricKey, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of the block size", domain.ErrCrypto, len(ciphertext))
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: aes: %v", domain.ErrCrypto, err)
	}
	plain := make([]byte, len(ciphertext))
	var iv [aes.BlockSize]byte
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(plain, ciphertext)
	return pkcs7Unpad(plain, aes.BlockSize)
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", domain.ErrCrypto)
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, fmt.Errorf("%w: invalid padding", domain.ErrCrypto)
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, fmt.Errorf("%w: invalid padding", domain.ErrCrypto)
		}
	}
	return b[:len(b)-n], nil
}
