package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// LegacyPrefix marks ballots stored as base64 plaintext by older deployments.
// They carry no key id and are signed with a plain sha256 tag.
const LegacyPrefix = "ENCRYPTED:"

// BallotCodec seals, opens and signs ballot payloads using a KeyProvider.
//
// Payload envelope: "<key-id>:<base64(nonce||ciphertext)>".
type BallotCodec struct {
	keys KeyProvider
}

func NewBallotCodec(keys KeyProvider) *BallotCodec {
	return &BallotCodec{keys: keys}
}

// Seal encrypts the JSON form of content with the active key.
func (c *BallotCodec) Seal(content any) (string, error) {
	id := c.keys.ActiveKeyID()
	key, err := c.keys.EncryptionKey(id)
	if err != nil {
		return "", err
	}
	sealed, err := SealJSON(content, key)
	if err != nil {
		return "", err
	}
	return id + ":" + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decodes payload into v. Legacy plaintext envelopes are accepted.
func (c *BallotCodec) Open(payload string, v any) error {
	if rest, ok := strings.CutPrefix(payload, LegacyPrefix); ok {
		raw, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return json.Unmarshal(raw, v)
	}

	id, body, ok := strings.Cut(payload, ":")
	if !ok || id == "" {
		return ErrMalformedPayload
	}
	sealed, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	key, err := c.keys.EncryptionKey(id)
	if err != nil {
		return err
	}
	return OpenJSON(sealed, key, v)
}

// Sign computes the deterministic integrity tag binding payload to voterID:
// hex(HMAC-SHA256(signing key of the payload's key id, payload || voterID)).
// Legacy payloads use hex(sha256(payload || voterID)).
func (c *BallotCodec) Sign(payload, voterID string) (string, error) {
	if strings.HasPrefix(payload, LegacyPrefix) {
		sum := sha256.Sum256([]byte(payload + voterID))
		return hex.EncodeToString(sum[:]), nil
	}
	id, _, ok := strings.Cut(payload, ":")
	if !ok {
		return "", ErrMalformedPayload
	}
	key, err := c.keys.SigningKey(id)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(payload))
	mac.Write([]byte(voterID))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// VerifySignature re-derives the tag and compares it in constant time.
func (c *BallotCodec) VerifySignature(payload, voterID, signature string) bool {
	want, err := c.Sign(payload, voterID)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(want), []byte(signature))
}
