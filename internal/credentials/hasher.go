package credentials

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength = 16
	keyLength  = 32
	// MaxEncodedLength is the widest encoded hash the author table can hold.
	MaxEncodedLength = 97
	// ActivationTokenBytes yields a 32-character hex token.
	ActivationTokenBytes = 16
	// maxVerifyMemoryKiB bounds the memory a stored hash may demand (1 GiB).
	maxVerifyMemoryKiB = 1 << 20
)

var (
	// ErrInvalidParams indicates argon2id parameters that are zero or encode past MaxEncodedLength.
	ErrInvalidParams = errors.New("credentials: invalid argon2id parameters")
	// ErrMalformedHash indicates an encoded hash that is not in argon2id PHC form.
	ErrMalformedHash = errors.New("credentials: malformed hash")
	// ErrEmptyPassword indicates a blank plaintext password.
	ErrEmptyPassword = errors.New("credentials: password is empty")
)

// Params configures argon2id.
type Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns the parameters used when configuration is silent.
func DefaultParams() Params {
	return Params{MemoryKiB: 65536, Iterations: 3, Parallelism: 1}
}

// Hasher produces and checks argon2id hashes in $argon2id$v=..$m=..,t=..,p=..$salt$key form.
type Hasher struct {
	params Params
}

// NewHasher validates params and returns a Hasher.
func NewHasher(params Params) (*Hasher, error) {
	if params.MemoryKiB == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return nil, fmt.Errorf("%w: memory, iterations and parallelism must be positive", ErrInvalidParams)
	}
	if length := len(encode(params, make([]byte, saltLength), make([]byte, keyLength))); length > MaxEncodedLength {
		return nil, fmt.Errorf("%w: encoded hash would be %d bytes, limit %d", ErrInvalidParams, length, MaxEncodedLength)
	}
	return &Hasher{params: params}, nil
}

// Hash derives an encoded argon2id hash for password using a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("credentials: generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.MemoryKiB, h.params.Parallelism, keyLength)
	return encode(h.params, salt, key), nil
}

// Verify reports whether password matches encoded, using the parameters stored in encoded.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("%w: not argon2id", ErrMalformedHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, parts[2])
	}

	var params Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.MemoryKiB, &params.Iterations, &params.Parallelism); err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	if params.MemoryKiB == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return false, fmt.Errorf("%w: memory, iterations and parallelism must be positive", ErrMalformedHash)
	}
	if params.MemoryKiB > maxVerifyMemoryKiB {
		return false, fmt.Errorf("%w: memory %d KiB exceeds %d KiB", ErrMalformedHash, params.MemoryKiB, maxVerifyMemoryKiB)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: key: %w", ErrMalformedHash, err)
	}
	if len(salt) == 0 || len(key) == 0 {
		return false, fmt.Errorf("%w: empty salt or key", ErrMalformedHash)
	}

	candidate := argon2.IDKey([]byte(password), salt, params.Iterations, params.MemoryKiB, params.Parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func encode(params Params, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, params.MemoryKiB, params.Iterations, params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

// NewActivationToken returns ActivationTokenBytes random bytes as lowercase hex.
func NewActivationToken() (string, error) {
	buffer := make([]byte, ActivationTokenBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("credentials: generate activation token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}
