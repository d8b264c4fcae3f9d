package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// VoterFingerprint is the non-reversible voter marker embedded in ballots:
// the first 16 hex characters of sha256(voterID).
func VoterFingerprint(voterID string) string {
	sum := sha256.Sum256([]byte(voterID))
	return hex.EncodeToString(sum[:])[:16]
}

// ChainHash links a vote to its predecessor:
// hex(sha256(prev || payload || signature)).
func ChainHash(prev, payload, signature string) string {
	h := sha256.New()
	h.Write([]byte(prev))
	h.Write([]byte(payload))
	h.Write([]byte(signature))
	return hex.EncodeToString(h.Sum(nil))
}

// ChainLink is the part of a stored vote that participates in the chain.
type ChainLink struct {
	Payload   string
	Signature string
	ChainHash string
}

// RecomputeChain walks links from genesis, deriving each hash from the
// recomputed (not the stored) predecessor, and returns the indexes whose
// stored hash disagrees. Tampering with one link therefore flags it and every
// later link.
func RecomputeChain(genesis string, links []ChainLink) []int {
	var mismatches []int
	prev := genesis
	for i, l := range links {
		want := ChainHash(prev, l.Payload, l.Signature)
		if want != l.ChainHash {
			mismatches = append(mismatches, i)
		}
		prev = want
	}
	return mismatches
}

// FirstBrokenLink returns the index of the first mismatching link or -1.
func FirstBrokenLink(genesis string, links []ChainLink) int {
	m := RecomputeChain(genesis, links)
	if len(m) == 0 {
		return -1
	}
	return m[0]
}
