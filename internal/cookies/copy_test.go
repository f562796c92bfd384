package cookies

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestSafeCopy_CopiesFileAndCompanions(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/p/cookies.sqlite", []byte("main"), 0644)
	afero.WriteFile(fs, "/p/cookies.sqlite-wal", []byte("wal"), 0644)

	dir, cleanup, err := SafeCopy(fs, "/p/cookies.sqlite")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	osFs := afero.NewOsFs()
	for name, want := range map[string]string{"cookies.sqlite": "main", "cookies.sqlite-wal": "wal"} {
		got, err := afero.ReadFile(osFs, filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s not copied: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s: expected %q, got %q", name, want, got)
		}
	}
	if ok, _ := afero.Exists(osFs, filepath.Join(dir, "cookies.sqlite-shm")); ok {
		t.Error("shm must not be created when the source has none")
	}
}

func TestSafeCopy_CleanupRemovesDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/Cookies", []byte("db"), 0644)

	dir, cleanup, err := SafeCopy(fs, "/Cookies")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cleanup()
	if ok, _ := afero.DirExists(afero.NewOsFs(), dir); ok {
		t.Fatalf("temp dir %s still exists after cleanup", dir)
	}
}

func TestSafeCopy_Rejects(t *testing.T) {
	fs := afero.NewMemMapFs()
	fs.MkdirAll("/dir", 0755)
	afero.WriteFile(fs, "/empty", nil, 0644)

	tests := []struct {
		path string
		want string
	}{
		{"/missing", "not found"},
		{"/dir", "is a directory"},
		{"/empty", "empty or corrupted"},
	}
	for _, tt := range tests {
		_, _, err := SafeCopy(fs, tt.path)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: expected error containing %q, got %v", tt.path, tt.want, err)
		}
	}
}
