package authors

import (
	"path/filepath"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const (
	sampleID           = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	sampleAvatarURL    = "https://x.test/a.png"
	sampleEmail        = "a@b.com"
	sampleUsername     = "bob"
	secondSampleID     = "0190b5d2-7c1e-7b3a-9f4e-2d6c8a1b3e5f"
	secondSampleEmail  = "c@d.com"
	secondSampleHandle = "alice"
)

var (
	sampleActivationToken = strings.Repeat("a", MaxActivationTokenLength)
	samplePasswordHash    = strings.Repeat("f", MaxPasswordHashLength)
)

func mustAuthor(t *testing.T, rawID any, email, username string) *Author {
	t.Helper()
	author, err := New(rawID, sampleAvatarURL, sampleActivationToken, email, samplePasswordHash, username)
	if err != nil {
		t.Fatalf("unexpected author error: %v", err)
	}
	return author
}

func mustSampleAuthor(t *testing.T) *Author {
	t.Helper()
	return mustAuthor(t, sampleID, sampleEmail, sampleUsername)
}

func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	databasePath := filepath.Join(t.TempDir(), "authors.db")
	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("failed to migrate author schema: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func assertSameAuthor(t *testing.T, expected, actual *Author) {
	t.Helper()
	if actual == nil {
		t.Fatalf("expected author %s, got nil", expected.ID())
	}
	expectedShape := expected.WireShape()
	actualShape := actual.WireShape()
	for key, value := range expectedShape {
		if actualShape[key] != value {
			t.Fatalf("field %s mismatch: expected %q, got %q", key, value, actualShape[key])
		}
	}
}
