// Package imaging turns inline item photos into upload-ready JPEG bytes.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height of an uploaded photo.
const MaxDimension = 1024

// JPEGQuality is the compression quality for re-encoded photos.
const JPEGQuality = 85

// ErrEmptyPhoto is returned by DecodeInline for blank input.
var ErrEmptyPhoto = errors.New("empty photo")

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is an image ready for upload.
type Photo struct {
	Data []byte
	MIME string
}

// DecodeInline extracts raw bytes from a data URI ("data:image/png;base64,...")
// or from plain base64 text.
func DecodeInline(inline string) ([]byte, error) {
	inline = strings.TrimSpace(inline)
	if inline == "" {
		return nil, ErrEmptyPhoto
	}

	if rest, ok := strings.CutPrefix(inline, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, fmt.Errorf("malformed data uri")
		}
		if !strings.HasSuffix(header, ";base64") {
			return []byte(payload), nil
		}
		inline = payload
	}

	data, err := base64.StdEncoding.DecodeString(inline)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(inline)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding base64 photo: %w", err)
	}
	return data, nil
}

// Normalize downscales JPEG and PNG images to MaxDimension and re-encodes them
// as JPEG. Anything it cannot decode is returned untouched with the sniffed
// content type.
func Normalize(data []byte) Photo {
	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return Photo{Data: data, MIME: detected}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Photo{Data: data, MIME: detected}
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return Photo{Data: data, MIME: detected}
	}

	return Photo{Data: buf.Bytes(), MIME: "image/jpeg"}
}

// PrepareInline is DecodeInline followed by Normalize.
func PrepareInline(inline string) (Photo, error) {
	data, err := DecodeInline(inline)
	if err != nil {
		return Photo{}, err
	}
	return Normalize(data), nil
}

// EncodeInline returns data as a data URI. The MIME type is sniffed from
// the content.
func EncodeInline(data []byte) string {
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// downscale keeps the aspect ratio and returns img as is when it already fits.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
