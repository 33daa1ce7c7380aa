package storage

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Folders used for object keys
const (
	FolderCameras    = "cameras"
	FolderFilmStocks = "filmstocks"
	FolderModeration = "moderation"
	FolderPhotos     = "photos"
)

// ImageKey generates the canonical object key for a catalog resource image,
// e.g. "cameras/abc123-1712345678901.png".
func ImageKey(folder, resourceID string) string {
	return fmt.Sprintf("%s/%s-%d.png", folder, resourceID, time.Now().UnixMilli())
}

// ModerationKey generates a staging object key for an unreviewed image so it
// never lands on the resource's canonical slot,
// e.g. "moderation/camera/abc123-1712345678901.png".
func ModerationKey(resourceType, resourceID string) string {
	return fmt.Sprintf("%s/%s/%s-%d.png", FolderModeration, resourceType, resourceID, time.Now().UnixMilli())
}

// PhotoKey generates the object key for an uploaded photo variant,
// e.g. "photos/abc123/medium.jpg".
func PhotoKey(photoID, variant string) string {
	return fmt.Sprintf("%s/%s/%s.jpg", FolderPhotos, photoID, variant)
}

// KeyFromURL extracts the object key from a public URL. The key starts at the
// first known folder segment, which tolerates both virtual-hosted and
// path-style public URLs. Returns "" when no key can be found.
func KeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(u.Path, "/")
	for _, folder := range []string{FolderCameras, FolderFilmStocks, FolderModeration, FolderPhotos} {
		prefix := folder + "/"
		if strings.HasPrefix(path, prefix) {
			return path
		}
		if i := strings.Index(path, "/"+prefix); i >= 0 {
			return path[i+1:]
		}
	}
	return ""
}
