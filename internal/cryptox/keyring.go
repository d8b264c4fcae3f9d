package cryptox

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/evoting/internal/common"
)

var (
	ErrUnknownKey         = errors.New("unknown ballot key")
	ErrPassphraseRequired = errors.New("key ring is sealed, passphrase required")
	ErrMalformedPayload   = errors.New("malformed ballot payload")
)

const (
	purposeEncryption = "evoting/ballot-encryption/v1"
	purposeSigning    = "evoting/ballot-signature/v1"
	saltSize          = 16
)

// KeyProvider hands out ballot keys by id. The active key seals new ballots;
// older keys stay available so that ballots sealed before a rotation can
// still be opened and verified.
type KeyProvider interface {
	ActiveKeyID() string
	EncryptionKey(id string) ([]byte, error)
	SigningKey(id string) ([]byte, error)
}

// StoredKey is one entry of the key ring file. When the file is sealed with a
// passphrase, Material holds nonce||ciphertext of the raw key.
type StoredKey struct {
	ID        string    `json:"id"`
	Material  []byte    `json:"material"`
	CreatedAt time.Time `json:"created_at"`
}

// KeyRingFile is the on-disk layout of the key ring.
type KeyRingFile struct {
	Active string      `json:"active"`
	Salt   []byte      `json:"salt,omitempty"`
	Keys   []StoredKey `json:"keys"`
}

// KeyRing is the in-memory KeyProvider. It is loaded once at process start;
// rotation happens only through Rotate followed by Save, i.e. an explicit
// administrative action.
type KeyRing struct {
	mu      sync.RWMutex
	active  string
	master  map[string][]byte
	created map[string]time.Time
}

// NewKeyRing returns an empty ring. Use Rotate to add the first key.
func NewKeyRing() *KeyRing {
	return &KeyRing{master: map[string][]byte{}, created: map[string]time.Time{}}
}

// Add registers raw key material under id without changing the active key
// unless the ring is empty.
func (k *KeyRing) Add(id string, material []byte, createdAt time.Time) error {
	if len(material) != KeySize {
		return fmt.Errorf("key %s: want %d bytes, got %d", id, KeySize, len(material))
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.master[id] = append([]byte(nil), material...)
	k.created[id] = createdAt
	if k.active == "" {
		k.active = id
	}
	return nil
}

// Rotate generates a fresh key, makes it active and returns its id.
func (k *KeyRing) Rotate(now time.Time) (string, error) {
	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return "", err
	}
	id := fmt.Sprintf("k%s-%s", now.UTC().Format("20060102"), suffix)
	if err := k.Add(id, common.GenerateRandByteArray(KeySize), now); err != nil {
		return "", err
	}
	k.mu.Lock()
	k.active = id
	k.mu.Unlock()
	return id, nil
}

// ActiveKeyID implements KeyProvider.
func (k *KeyRing) ActiveKeyID() string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.active
}

// EncryptionKey implements KeyProvider.
func (k *KeyRing) EncryptionKey(id string) ([]byte, error) {
	return k.subKey(id, purposeEncryption)
}

// SigningKey implements KeyProvider.
func (k *KeyRing) SigningKey(id string) ([]byte, error) {
	return k.subKey(id, purposeSigning)
}

func (k *KeyRing) subKey(id, purpose string) ([]byte, error) {
	k.mu.RLock()
	master, ok := k.master[id]
	k.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, id)
	}
	return DeriveSubKey(master, purpose)
}

// IDs lists the key ids, oldest first.
func (k *KeyRing) IDs() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	ids := make([]string, 0, len(k.master))
	for id := range k.master {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := k.created[ids[i]], k.created[ids[j]]
		if ci.Equal(cj) {
			return ids[i] < ids[j]
		}
		return ci.Before(cj)
	})
	return ids
}

// Export builds the file representation. A non-empty passphrase seals every
// key with an argon2id-derived wrapping key.
func (k *KeyRing) Export(passphrase []byte) (*KeyRingFile, error) {
	f := &KeyRingFile{Active: k.ActiveKeyID()}

	var wrap []byte
	if len(passphrase) > 0 {
		f.Salt = common.GenerateRandByteArray(saltSize)
		wrap = DeriveMasterKey(passphrase, f.Salt)
		defer common.WipeByteArray(wrap)
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, id := range k.idsLocked() {
		material := k.master[id]
		if wrap != nil {
			sealed, err := Seal(material, wrap)
			if err != nil {
				return nil, err
			}
			material = sealed
		}
		f.Keys = append(f.Keys, StoredKey{ID: id, Material: material, CreatedAt: k.created[id]})
	}
	return f, nil
}

func (k *KeyRing) idsLocked() []string {
	ids := make([]string, 0, len(k.master))
	for id := range k.master {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Import rebuilds a KeyRing from its file representation.
func Import(f *KeyRingFile, passphrase []byte) (*KeyRing, error) {
	var wrap []byte
	if len(f.Salt) > 0 {
		if len(passphrase) == 0 {
			return nil, ErrPassphraseRequired
		}
		wrap = DeriveMasterKey(passphrase, f.Salt)
		defer common.WipeByteArray(wrap)
	}

	ring := NewKeyRing()
	for _, sk := range f.Keys {
		material := sk.Material
		if wrap != nil {
			opened, err := Open(material, wrap)
			if err != nil {
				return nil, fmt.Errorf("unseal key %s: %w", sk.ID, err)
			}
			material = opened
		}
		if err := ring.Add(sk.ID, material, sk.CreatedAt); err != nil {
			return nil, err
		}
	}

	if f.Active != "" {
		if _, ok := ring.master[f.Active]; !ok {
			return nil, fmt.Errorf("%w: active key %s", ErrUnknownKey, f.Active)
		}
		ring.active = f.Active
	}
	return ring, nil
}

// LoadKeyRing reads and imports the key ring file at path.
func LoadKeyRing(path string, passphrase []byte) (*KeyRing, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := &KeyRingFile{}
	if err := json.Unmarshal(b, f); err != nil {
		return nil, fmt.Errorf("parse key ring: %w", err)
	}
	return Import(f, passphrase)
}

// SaveKeyRing exports ring and writes it to path with 0600 permissions.
func SaveKeyRing(path string, ring *KeyRing, passphrase []byte) error {
	f, err := ring.Export(passphrase)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
