package imageproc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	// catalog images are squared off into a padded 1200px box
	catalogMaxSize = 1200
	catalogPadding = 40
	trimAlphaLimit = 10
	mediumMaxSize  = 1600
	thumbnailSize  = 400
	jpegQuality    = 90
)

// Normalize runs a catalog image (camera or film stock) through the
// standardized pipeline: trim transparent margins, pad, fit within a
// 1200x1200 box, re-encode as PNG.
func Normalize(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	trimmed := trimTransparent(src)

	bounds := trimmed.Bounds()
	canvas := imaging.New(bounds.Dx()+2*catalogPadding, bounds.Dy()+2*catalogPadding, image.Transparent)
	padded := imaging.Paste(canvas, trimmed, image.Pt(catalogPadding, catalogPadding))

	fitted := imaging.Fit(padded, catalogMaxSize, catalogMaxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// PhotoSet holds the encoded variants of an uploaded photo
type PhotoSet struct {
	Original  []byte
	Medium    []byte
	Thumbnail []byte
	Width     int
	Height    int
}

// ProcessPhoto builds the three stored variants of an uploaded photo:
// the re-encoded original, a 1600px medium and a 400px square thumbnail.
func ProcessPhoto(data []byte) (*PhotoSet, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()

	original, err := encodeJPEG(src)
	if err != nil {
		return nil, err
	}

	medium, err := encodeJPEG(imaging.Fit(src, mediumMaxSize, mediumMaxSize, imaging.Lanczos))
	if err != nil {
		return nil, err
	}

	thumbnail, err := encodeJPEG(imaging.Thumbnail(src, thumbnailSize, thumbnailSize, imaging.CatmullRom))
	if err != nil {
		return nil, err
	}

	return &PhotoSet{
		Original:  original,
		Medium:    medium,
		Thumbnail: thumbnail,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// trimTransparent crops away fully transparent margins. Images without an
// alpha channel (or with no opaque pixels at all) come back unchanged.
func trimTransparent(src image.Image) image.Image {
	img := imaging.Clone(src)
	bounds := img.Bounds()

	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			alpha := img.NRGBAAt(x, y).A
			if alpha > trimAlphaLimit {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if minX > maxX || minY > maxY {
		return img
	}

	rect := image.Rect(minX, minY, maxX+1, maxY+1)
	if rect == bounds {
		return img
	}
	return imaging.Crop(img, rect)
}
