package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher one-way hashes passwords and checks candidates against a stored
// digest. Two Hash calls on the same password differ (salted); Verify is
// the only valid comparison.
type Hasher interface {
	// Hash returns an encoded, salted digest of password.
	Hash(password string) (string, error)

	// Verify returns (true, nil) on match, (false, nil) on mismatch and an
	// error when hash cannot be decoded.
	Verify(password, hash string) (bool, error)
}

const (
	argon2Prefix = "$argon2id$"

	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// Argon2idHasher stores digests in PHC format:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
type Argon2idHasher struct{}

func NewArgon2idHasher() *Argon2idHasher { return &Argon2idHasher{} }

func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", common.ErrEmptyPassword
	}

	salt := common.GenerateRandByteArray(argon2SaltLen)
	if salt == nil {
		return "", errors.New("salt generation failed")
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	key := argon2.IDKey(pw, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix,
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idHasher) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, common.ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, common.ErrInvalidHash
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, common.ErrInvalidHash
	}
	if threads == 0 || threads > 255 {
		return false, common.ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, common.ErrInvalidHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 || len(want) > 1<<10 {
		return false, common.ErrInvalidHash
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	got := argon2.IDKey(pw, salt, time, memory, uint8(threads), uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// BcryptHasher wraps golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a BcryptHasher; a cost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", common.ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, common.ErrInvalidHash
	}
}

// MultiHasher hashes with a preferred algorithm and verifies digests of any
// algorithm it knows, picked by the digest prefix. Switching the configured
// algorithm therefore keeps existing accounts loginable.
type MultiHasher struct {
	preferred Hasher
	argon2    *Argon2idHasher
	bcrypt    *BcryptHasher
}

// NewHasher returns a MultiHasher preferring algorithm ("argon2id" or "bcrypt").
func NewHasher(algorithm string) (*MultiHasher, error) {
	m := &MultiHasher{argon2: NewArgon2idHasher(), bcrypt: NewBcryptHasher(bcrypt.DefaultCost)}
	switch algorithm {
	case "", "argon2id":
		m.preferred = m.argon2
	case "bcrypt":
		m.preferred = m.bcrypt
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", algorithm)
	}
	return m, nil
}

func (m *MultiHasher) Hash(password string) (string, error) {
	return m.preferred.Hash(password)
}

func (m *MultiHasher) Verify(password, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return m.argon2.Verify(password, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return m.bcrypt.Verify(password, hash)
	default:
		return false, common.ErrInvalidHash
	}
}
