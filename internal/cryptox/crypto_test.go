package cryptox

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveMasterKey(password, salt)
	key2 := DeriveMasterKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	assert.Len(t, key1, KeySize)
}

func TestDeriveMasterKey_DifferentInputs(t *testing.T) {
	key1 := DeriveMasterKey([]byte("secret-password"), []byte("salt-1"))
	key2 := DeriveMasterKey([]byte("secret-password"), []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestDeriveSubKey_SeparatesPurposes(t *testing.T) {
	master := bytes.Repeat([]byte{7}, KeySize)

	enc, err := DeriveSubKey(master, purposeEncryption)
	require.NoError(t, err)
	sig, err := DeriveSubKey(master, purposeSigning)
	require.NoError(t, err)

	assert.Len(t, enc, KeySize)
	assert.NotEqual(t, enc, sig)
}

func TestSealOpen_RoundTripAndTamper(t *testing.T) {
	key := bytes.Repeat([]byte{1}, KeySize)

	sealed, err := Seal([]byte("hello"), key)
	require.NoError(t, err)

	plain, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(plain))

	sealed[len(sealed)-1] ^= 0xff
	_, err = Open(sealed, key)
	require.Error(t, err)

	_, err = Open([]byte{1, 2}, key)
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestVoterFingerprint(t *testing.T) {
	fp := VoterFingerprint("voter-1")
	assert.Len(t, fp, 16)
	_, err := hex.DecodeString(fp)
	require.NoError(t, err)
	assert.Equal(t, fp, VoterFingerprint("voter-1"))
	assert.NotEqual(t, fp, VoterFingerprint("voter-2"))
}

func buildChain(n int) []ChainLink {
	links := make([]ChainLink, 0, n)
	prev := "genesis"
	for i := 0; i < n; i++ {
		l := ChainLink{Payload: "p" + string(rune('a'+i)), Signature: "s" + string(rune('a'+i))}
		l.ChainHash = ChainHash(prev, l.Payload, l.Signature)
		prev = l.ChainHash
		links = append(links, l)
	}
	return links
}

func TestRecomputeChain_Intact(t *testing.T) {
	links := buildChain(5)
	assert.Empty(t, RecomputeChain("genesis", links))
	assert.Equal(t, -1, FirstBrokenLink("genesis", links))
}

func TestRecomputeChain_TamperFlagsSuffix(t *testing.T) {
	links := buildChain(5)
	links[2].Payload = "forged"

	assert.Equal(t, []int{2, 3, 4}, RecomputeChain("genesis", links))
	assert.Equal(t, 2, FirstBrokenLink("genesis", links))
}

func TestRecomputeChain_ReorderDetected(t *testing.T) {
	links := buildChain(4)
	links[1], links[2] = links[2], links[1]

	assert.Equal(t, 1, FirstBrokenLink("genesis", links))
}

func TestKeyRing_RotateKeepsOldKeys(t *testing.T) {
	ring := NewKeyRing()
	first, err := ring.Rotate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	second, err := ring.Rotate(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, second, ring.ActiveKeyID())
	assert.Equal(t, []string{first, second}, ring.IDs())

	_, err = ring.EncryptionKey(first)
	require.NoError(t, err)
	_, err = ring.EncryptionKey("missing")
	require.ErrorIs(t, err, ErrUnknownKey)
}

func TestKeyRing_SaveLoad_Plain(t *testing.T) {
	ring := NewKeyRing()
	id, err := ring.Rotate(time.Now())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keys.json")
	require.NoError(t, SaveKeyRing(path, ring, nil))

	loaded, err := LoadKeyRing(path, nil)
	require.NoError(t, err)
	assert.Equal(t, id, loaded.ActiveKeyID())

	a, _ := ring.SigningKey(id)
	b, _ := loaded.SigningKey(id)
	assert.Equal(t, a, b)
}

func TestKeyRing_SaveLoad_Sealed(t *testing.T) {
	ring := NewKeyRing()
	id, err := ring.Rotate(time.Now())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keys.json")
	require.NoError(t, SaveKeyRing(path, ring, []byte("correct horse")))

	_, err = LoadKeyRing(path, nil)
	require.ErrorIs(t, err, ErrPassphraseRequired)

	_, err = LoadKeyRing(path, []byte("wrong"))
	require.Error(t, err)

	loaded, err := LoadKeyRing(path, []byte("correct horse"))
	require.NoError(t, err)
	assert.Equal(t, id, loaded.ActiveKeyID())
}

type ballot struct {
	ElectionID string   `json:"eleccion_id"`
	Candidates []string `json:"candidatos"`
}

func newCodec(t *testing.T) (*BallotCodec, *KeyRing) {
	t.Helper()
	ring := NewKeyRing()
	_, err := ring.Rotate(time.Now())
	require.NoError(t, err)
	return NewBallotCodec(ring), ring
}

func TestBallotCodec_SealOpen(t *testing.T) {
	codec, ring := newCodec(t)

	payload, err := codec.Seal(ballot{ElectionID: "e1", Candidates: []string{"c1"}})
	require.NoError(t, err)
	assert.Contains(t, payload, ring.ActiveKeyID()+":")
	assert.NotContains(t, payload, "c1")

	var got ballot
	require.NoError(t, codec.Open(payload, &got))
	assert.Equal(t, []string{"c1"}, got.Candidates)
}

func TestBallotCodec_OpenAfterRotation(t *testing.T) {
	codec, ring := newCodec(t)

	payload, err := codec.Seal(ballot{ElectionID: "e1"})
	require.NoError(t, err)

	_, err = ring.Rotate(time.Now().Add(time.Hour))
	require.NoError(t, err)

	var got ballot
	require.NoError(t, codec.Open(payload, &got))
	assert.Equal(t, "e1", got.ElectionID)
}

func TestBallotCodec_OpenLegacyAndGarbage(t *testing.T) {
	codec, _ := newCodec(t)

	legacy := LegacyPrefix + base64.StdEncoding.EncodeToString([]byte(`{"eleccion_id":"e9","candidatos":["x"]}`))
	var got ballot
	require.NoError(t, codec.Open(legacy, &got))
	assert.Equal(t, "e9", got.ElectionID)

	require.Error(t, codec.Open("no-separator", &got))
	require.Error(t, codec.Open("unknown:AAAA", &got))
	require.Error(t, codec.Open(LegacyPrefix+"%%%", &got))
}

func TestBallotCodec_SignIsDeterministicAndBound(t *testing.T) {
	codec, _ := newCodec(t)

	payload, err := codec.Seal(ballot{ElectionID: "e1"})
	require.NoError(t, err)

	s1, err := codec.Sign(payload, "v1")
	require.NoError(t, err)
	s2, err := codec.Sign(payload, "v1")
	require.NoError(t, err)
	s3, err := codec.Sign(payload, "v2")
	require.NoError(t, err)

	assert.Equal(t, s1, s2)
	assert.NotEqual(t, s1, s3)
	assert.True(t, codec.VerifySignature(payload, "v1", s1))
	assert.False(t, codec.VerifySignature(payload, "v2", s1))
}
