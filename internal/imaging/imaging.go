// Package imaging normalizes uploaded photos before they are stored and embedded.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	// Registered decoders for accepted upload formats.
	_ "image/gif"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/lostaf-io/lostaf/internal/domain"
)

// Options bounds the normalized output.
type Options struct {
	MaxSide int // longest edge after downscaling
	Quality int // JPEG quality 1-100
}

// DefaultOptions matches domain.DefaultVectorConfig.
func DefaultOptions() Options {
	vc := domain.DefaultVectorConfig()
	return Options{MaxSide: vc.MaxImageSide, Quality: vc.JPEGQuality}
}

// Image is a normalized upload.
type Image struct {
	JPEG   []byte
	Width  int
	Height int
}

// DataURL renders the image as an inline data URL.
func (i Image) DataURL() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(i.JPEG)
}

// Normalize decodes data, applies EXIF orientation, fits it within
// opts.MaxSide preserving aspect ratio, flattens transparency onto white and
// re-encodes it as JPEG. Undecodable input yields domain.ErrInvalidImage.
func Normalize(data []byte, opts Options) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("empty upload: %w", domain.ErrInvalidImage)
	}
	if opts.MaxSide <= 0 || opts.Quality <= 0 || opts.Quality > 100 {
		opts = DefaultOptions()
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode: %w: %w", domain.ErrInvalidImage, err)
	}

	src = orient(src, orientation(data))

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), opts.MaxSide)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return Image{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Image{JPEG: buf.Bytes(), Width: w, Height: h}, nil
}

// fit scales (w, h) down so the longest side is at most maxSide. Never upscales.
func fit(w, h, maxSide int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		nh := max(1, h*maxSide/w)
		return maxSide, nh
	}
	nw := max(1, w*maxSide/h)
	return nw, maxSide
}

// orientation reads the EXIF orientation tag, 1 when absent or unreadable.
func orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// orient applies an EXIF orientation (2-8) so the image displays upright.
func orient(img image.Image, o int) image.Image {
	if o < 2 || o > 8 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	swap := o >= 5
	dw, dh := w, h
	if swap {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch o {
			case 2: // mirror horizontal
				dx, dy = w-1-x, y
			case 3: // rotate 180
				dx, dy = w-1-x, h-1-y
			case 4: // mirror vertical
				dx, dy = x, h-1-y
			case 5: // transpose
				dx, dy = y, x
			case 6: // rotate 90 CW
				dx, dy = h-1-y, x
			case 7: // transverse
				dx, dy = h-1-y, w-1-x
			case 8: // rotate 90 CCW
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
