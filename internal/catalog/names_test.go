package catalog

import (
	"errors"
	"testing"
)

func TestDecodeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"beach.jpg", "beach.jpg"},
		{"my%20photo.jpg", "my photo.jpg"},
		{"my%2520photo.jpg", "my photo.jpg"},
		{"summer%202023", "summer 2023"},
		{"caf%C3%A9.jpg", "café.jpg"},
		{"plain name.jpg", "plain name.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := DecodeName(tt.raw)
			if err != nil {
				t.Fatalf("DecodeName(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("DecodeName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeNameRejects(t *testing.T) {
	for _, raw := range []string{"", ".", "..", "%2E%2E", "a%2Fb", "bad%zz", "a%00b"} {
		t.Run(raw, func(t *testing.T) {
			if _, err := DecodeName(raw); !errors.Is(err, ErrInvalidName) {
				t.Errorf("DecodeName(%q) error = %v, want ErrInvalidName", raw, err)
			}
		})
	}
}

func TestEncodeNameRoundTrip(t *testing.T) {
	for _, name := range []string{"beach.jpg", "my photo.jpg", "café.jpg", "100% real.png"} {
		got, err := DecodeName(EncodeName(name))
		if err != nil {
			t.Fatalf("DecodeName(EncodeName(%q)) error = %v", name, err)
		}
		if got != name {
			t.Errorf("round trip of %q = %q", name, got)
		}
	}
}
