package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
)

// encodePNG renders a test fixture: a transparent canvas with an opaque
// rectangle at the given bounds.
func encodePNG(t *testing.T, width, height int, opaque image.Rectangle) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := opaque.Min.Y; y < opaque.Max.Y; y++ {
		for x := opaque.Min.X; x < opaque.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 30, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestNormalizeTrimsAndPads(t *testing.T) {
	// 500x500 canvas, content confined to a 100x60 block: the margins get
	// trimmed, then 40px padding is added on each side.
	data := encodePNG(t, 500, 500, image.Rect(200, 220, 300, 280))

	out, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	w, h := decodeSize(t, out)
	if w != 180 || h != 140 {
		t.Errorf("expected 180x140 after trim+pad, got %dx%d", w, h)
	}
}

func TestNormalizeCapsLargeImages(t *testing.T) {
	data := encodePNG(t, 3000, 1500, image.Rect(0, 0, 3000, 1500))

	out, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	w, h := decodeSize(t, out)
	if w > 1200 || h > 1200 {
		t.Errorf("image not capped to 1200 box: %dx%d", w, h)
	}
	if w != 1200 {
		t.Errorf("expected width scaled to 1200, got %d", w)
	}
}

func TestNormalizeFullyTransparentUnchanged(t *testing.T) {
	// No opaque pixels: nothing to trim, only padding applies.
	data := encodePNG(t, 100, 80, image.Rect(0, 0, 0, 0))

	out, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	w, h := decodeSize(t, out)
	if w != 180 || h != 160 {
		t.Errorf("expected 180x160, got %dx%d", w, h)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte("definitely not an image")); err == nil {
		t.Error("expected decode error")
	}
}

func TestProcessPhotoVariants(t *testing.T) {
	data := encodePNG(t, 2400, 1600, image.Rect(0, 0, 2400, 1600))

	set, err := ProcessPhoto(data)
	if err != nil {
		t.Fatalf("ProcessPhoto failed: %v", err)
	}
	if set.Width != 2400 || set.Height != 1600 {
		t.Errorf("dimensions not recorded: %dx%d", set.Width, set.Height)
	}

	w, h := decodeSize(t, set.Medium)
	if w != 1600 || h > 1600 {
		t.Errorf("medium variant not fitted: %dx%d", w, h)
	}

	w, h = decodeSize(t, set.Thumbnail)
	if w != 400 || h != 400 {
		t.Errorf("thumbnail not square: %dx%d", w, h)
	}

	if len(set.Original) == 0 {
		t.Error("original variant empty")
	}
}
