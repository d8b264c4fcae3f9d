// Package cryptox contains the symmetric primitives used by the vote ledger:
// AES-GCM sealing of ballot content, argon2id passphrase derivation for the
// key ring file, HKDF sub-keys and the hash helpers that build the vote chain.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/json"
	"io"

	"github.com/dmitrijs2005/evoting/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the length of every key handled by this package (AES-256).
const KeySize = 32

// DeriveMasterKey stretches a passphrase into a KeySize key with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// DeriveSubKey expands master into a KeySize key bound to purpose.
func DeriveSubKey(master []byte, purpose string) ([]byte, error) {
	out := make([]byte, KeySize)
	r := hkdf.New(sha256.New, master, nil, []byte(purpose))
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Seal encrypts plaintext with AES-GCM and returns nonce||ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(sealed, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	ns := aesgcm.NonceSize()
	if len(sealed) < ns {
		return nil, ErrMalformedPayload
	}
	return aesgcm.Open(nil, sealed[:ns], sealed[ns:], nil)
}

// SealJSON serializes v to JSON and seals it.
func SealJSON(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(plaintext)
	return Seal(plaintext, key)
}

// OpenJSON opens sealed and unmarshals the JSON plaintext into v.
func OpenJSON(sealed, key []byte, v any) error {
	plaintext, err := Open(sealed, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
