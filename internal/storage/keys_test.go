package storage

import (
	"strings"
	"testing"
)

func TestImageKeyFormat(t *testing.T) {
	key := ImageKey(FolderCameras, "abc123")
	if !strings.HasPrefix(key, "cameras/abc123-") || !strings.HasSuffix(key, ".png") {
		t.Errorf("unexpected key: %s", key)
	}

	key = ModerationKey("camera", "abc123")
	if !strings.HasPrefix(key, "moderation/camera/abc123-") || !strings.HasSuffix(key, ".png") {
		t.Errorf("unexpected staging key: %s", key)
	}

	if got := PhotoKey("p1", "thumbnail"); got != "photos/p1/thumbnail.jpg" {
		t.Errorf("unexpected photo key: %s", got)
	}
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		// virtual-hosted style
		{"https://bucket.s3.example.com/cameras/abc-1.png", "cameras/abc-1.png"},
		// path style with bucket segment
		{"https://s3.example.com/bucket/filmstocks/x-2.png", "filmstocks/x-2.png"},
		{"https://cdn.example.com/gallery/moderation/camera/abc-3.png", "moderation/camera/abc-3.png"},
		{"https://cdn.example.com/photos/p1/medium.jpg", "photos/p1/medium.jpg"},
		// unknown layout
		{"https://cdn.example.com/other/abc.png", ""},
		{"not a url at all", ""},
	}

	for _, tt := range tests {
		if got := KeyFromURL(tt.url); got != tt.want {
			t.Errorf("KeyFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
