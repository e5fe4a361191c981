package credentials

import (
	"errors"
	"strings"
	"testing"
)

// testParams keeps argon2 cheap while encoding to the same width as the defaults.
func testParams() Params {
	return Params{MemoryKiB: 10240, Iterations: 1, Parallelism: 1}
}

func mustHasher(t *testing.T, params Params) *Hasher {
	t.Helper()
	hasher, err := NewHasher(params)
	if err != nil {
		t.Fatalf("unexpected hasher error: %v", err)
	}
	return hasher
}

func TestHashFitsAuthorColumn(t *testing.T) {
	mustHasher(t, DefaultParams())

	hasher := mustHasher(t, testParams())
	encoded, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if len(encoded) != MaxEncodedLength {
		t.Fatalf("expected %d byte encoding, got %d: %s", MaxEncodedLength, len(encoded), encoded)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=10240,t=1,p=1$") {
		t.Fatalf("unexpected encoding prefix: %s", encoded)
	}
}

func TestVerifyMatchesOnlyOriginalPassword(t *testing.T) {
	hasher := mustHasher(t, testParams())
	encoded, err := hasher.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	matched, err := hasher.Verify("s3cret", encoded)
	if err != nil || !matched {
		t.Fatalf("expected password to verify, matched=%v err=%v", matched, err)
	}
	matched, err = hasher.Verify("wrong", encoded)
	if err != nil || matched {
		t.Fatalf("expected mismatch, matched=%v err=%v", matched, err)
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	hasher := mustHasher(t, testParams())
	const salt = "AAAAAAAAAAAAAAAAAAAAAA"
	const key = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	testCases := map[string]string{
		"empty":               "",
		"plain":               "plain",
		"bcrypt":              "$bcrypt$v=19$m=1,t=1,p=1$a$b",
		"old version":         "$argon2id$v=1$m=1,t=1,p=1$a$b",
		"empty key":           "$argon2id$v=19$m=8,t=1,p=1$" + salt + "$",
		"empty salt":          "$argon2id$v=19$m=8,t=1,p=1$$" + key,
		"zero parallelism":    "$argon2id$v=19$m=8,t=1,p=0$" + salt + "$" + key,
		"zero iterations":     "$argon2id$v=19$m=8,t=0,p=1$" + salt + "$" + key,
		"zero memory":         "$argon2id$v=19$m=0,t=1,p=1$" + salt + "$" + key,
		"oversized memory":    "$argon2id$v=19$m=4294967295,t=1,p=1$" + salt + "$" + key,
		"parallelism too big": "$argon2id$v=19$m=8,t=1,p=300$" + salt + "$" + key,
	}
	for name, encoded := range testCases {
		t.Run(name, func(t *testing.T) {
			matched, err := hasher.Verify("anything-at-all", encoded)
			if !errors.Is(err, ErrMalformedHash) {
				t.Fatalf("expected ErrMalformedHash for %q, got %v", encoded, err)
			}
			if matched {
				t.Fatalf("expected no match for %q", encoded)
			}
		})
	}
}

func TestNewHasherRejectsOversizedOrZeroParams(t *testing.T) {
	testCases := map[string]Params{
		"zero memory":     {MemoryKiB: 0, Iterations: 1, Parallelism: 1},
		"zero iterations": {MemoryKiB: 65536, Iterations: 0, Parallelism: 1},
		"too wide":        {MemoryKiB: 1048576, Iterations: 10, Parallelism: 1},
	}
	for name, params := range testCases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewHasher(params); !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestHashRejectsBlankPassword(t *testing.T) {
	hasher := mustHasher(t, testParams())
	if _, err := hasher.Hash("   "); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestNewActivationToken(t *testing.T) {
	first, err := NewActivationToken()
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	second, err := NewActivationToken()
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	if len(first) != 2*ActivationTokenBytes {
		t.Fatalf("expected %d characters, got %d", 2*ActivationTokenBytes, len(first))
	}
	if first == second {
		t.Fatalf("expected distinct tokens")
	}
}
