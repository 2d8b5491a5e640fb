package contacts

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const hashAlgorithm = "argon2id"

// Upper bounds accepted when verifying a stored hash, so a tampered contact book can't make us allocate
// gigabytes or spin for minutes.
const maxMemoryKiB = 1 << 20 // 1 GiB
const maxIterations = 64
const maxKeyLength = 1024

// Params - Argon2id cost parameters. Safe words are short and memorable, so they are hashed with a memory-hard
// function rather than a fast digest.
type Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams - 64 MiB, 3 passes, 2 lanes, 16 byte salt, 32 byte key.
var DefaultParams = Params{
	MemoryKiB:   64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

var defaultHasher = &Hasher{params: DefaultParams}

func (p Params) validate() error {
	if p.Iterations < 1 || p.Iterations > maxIterations {
		return fmt.Errorf("iterations must be between 1 and %d", maxIterations)
	}
	if p.Parallelism < 1 {
		return errors.New("parallelism must be at least 1")
	}
	if p.MemoryKiB < 8*uint32(p.Parallelism) || p.MemoryKiB > maxMemoryKiB {
		return fmt.Errorf("memory must be between %d and %d KiB", 8*uint32(p.Parallelism), maxMemoryKiB)
	}
	if p.SaltLength < 8 {
		return errors.New("salt length must be at least 8 bytes")
	}
	if p.KeyLength < 16 || p.KeyLength > maxKeyLength {
		return fmt.Errorf("key length must be between 16 and %d bytes", maxKeyLength)
	}
	return nil
}

// Hasher - hashes safe words with a fixed set of parameters. Verification always uses the parameters embedded
// in the hash being checked, so hashes made with older parameters keep working.
type Hasher struct {
	params Params
}

func NewHasher(params Params) (*Hasher, error) {
	if err := params.validate(); err != nil {
		return nil, errors.Join(errors.New("invalid safe word hashing parameters"), err)
	}
	return &Hasher{params: params}, nil
}

func (h *Hasher) Params() Params {
	return h.params
}

// Hash - see Hasher.Hash. Uses DefaultParams.
func Hash(plaintext string) (string, error) {
	return defaultHasher.Hash(plaintext)
}

// Hash - returns an encoded Argon2id hash of plaintext using a fresh random salt. Hashing the same plaintext twice
// gives two different strings which both Verify.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", missingField("safe_word")
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plaintext), salt, h.params.Iterations, h.params.MemoryKiB, h.params.Parallelism, h.params.KeyLength)
	return encodeHash(h.params, salt, key), nil
}

// Verify - see Hasher.Verify.
func Verify(encoded string, attempt string) (bool, error) {
	return defaultHasher.Verify(encoded, attempt)
}

// Verify - reports whether attempt hashes to encoded. A wrong attempt is (false, nil); only an encoded hash that
// can't be parsed is an error. The comparison takes the same time wherever the first differing byte is.
func (h *Hasher) Verify(encoded string, attempt string) (bool, error) {
	params, salt, want, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(attempt), salt, params.Iterations, params.MemoryKiB, params.Parallelism, params.KeyLength)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func encodeHash(p Params, salt []byte, key []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		hashAlgorithm,
		argon2.Version,
		p.MemoryKiB, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	malformed := func(reason string) (Params, []byte, []byte, error) {
		// Note: the hash itself is never included in the error
		return Params{}, nil, nil, &ValidationError{Field: "safe_hash", Reason: reason}
	}

	// "$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>" splits into 6 parts, the first being empty
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return malformed("not an encoded hash")
	}
	if parts[1] != hashAlgorithm {
		return malformed("unsupported algorithm")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || parts[2] != fmt.Sprintf("v=%d", version) {
		return malformed("unreadable version")
	}
	if version != argon2.Version {
		return malformed("unsupported version")
	}

	p := Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Iterations, &p.Parallelism); err != nil {
		return malformed("unreadable parameters")
	}
	if parts[3] != fmt.Sprintf("m=%d,t=%d,p=%d", p.MemoryKiB, p.Iterations, p.Parallelism) {
		return malformed("unreadable parameters")
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return malformed("unreadable salt")
	}
	key, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return malformed("unreadable key")
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	if err = p.validate(); err != nil {
		return malformed("parameters out of range")
	}
	return p, salt, key, nil
}

// NeedsRehash - reports whether encoded was made with parameters other than this Hasher's, meaning it still
// verifies but would be stronger (or cheaper) if the safe word were set again.
func (h *Hasher) NeedsRehash(encoded string) (bool, error) {
	params, _, _, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	return params.MemoryKiB != h.params.MemoryKiB ||
		params.Iterations != h.params.Iterations ||
		params.Parallelism != h.params.Parallelism ||
		params.KeyLength != h.params.KeyLength, nil
}
