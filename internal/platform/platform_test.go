//go:build (darwin || linux) && (amd64 || arm64)

package platform

import (
	"runtime"
	"testing"
)

func TestIs64Bit(t *testing.T) {
	if !Is64Bit {
		t.Error("Platform should be 64-bit")
	}
}

func TestLibraryExtension(t *testing.T) {
	switch runtime.GOOS {
	case "darwin":
		if LibraryExtension != ".dylib" {
			t.Errorf("expected .dylib, got %s", LibraryExtension)
		}
	default:
		if LibraryExtension != ".so" {
			t.Errorf("expected .so, got %s", LibraryExtension)
		}
	}
}

func TestFormatLibraryName(t *testing.T) {
	tests := []struct {
		name    string
		version int
		linux   string
		darwin  string
	}{
		{"spotify", 12, "libspotify.so.12", "libspotify.12.dylib"},
		{"spotify", 0, "libspotify.so", "libspotify.dylib"},
	}

	for _, tt := range tests {
		got := FormatLibraryName(tt.name, tt.version)
		want := tt.linux
		if runtime.GOOS == "darwin" {
			want = tt.darwin
		}
		if got != want {
			t.Errorf("FormatLibraryName(%q, %d) = %q, want %q", tt.name, tt.version, got, want)
		}
	}
}

func TestString(t *testing.T) {
	if got, want := String(), runtime.GOOS+"/"+runtime.GOARCH; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
