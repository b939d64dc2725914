package filex

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "qrcodes")

	got, err := EnsureDir(dir)
	if err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}

	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("stat error: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", got)
	}

	// second call is a no-op
	if _, err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir (existing) error: %v", err)
	}
}

func TestIsAcceptableImage(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"avatar.png", true},
		{"avatar.PNG", true},
		{"photo.jpeg", true},
		{"photo.jpg", true},
		{"logo.svg", true},
		{"doc.pdf", false},
		{"script.png.exe", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsAcceptableImage(tt.name); got != tt.want {
			t.Errorf("IsAcceptableImage(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGeneratedName(t *testing.T) {
	name := GeneratedName("My Photo.JPG")

	re := regexp.MustCompile(`^\d+_[0-9a-f]{8}\.jpg$`)
	if !re.MatchString(name) {
		t.Errorf("GeneratedName() = %q, want timestamped .jpg name", name)
	}

	if name == GeneratedName("My Photo.JPG") {
		t.Error("two generated names should not collide")
	}
}
