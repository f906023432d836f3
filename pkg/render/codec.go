// Package render converts between page bitmaps and image files.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 90

// Decode reads an image file, returning the image and the detected
// format name.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}

// Encode serializes an image in the named format. Format names are
// file extensions, case insensitive, with or without the dot.
func Encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch NormalizeFormat(format) {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	case "webp":
		return nil, fmt.Errorf("webp encoding is not supported")
	default:
		return nil, fmt.Errorf("unknown image format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NormalizeFormat canonicalizes a format name or file extension
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	switch f {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return f
}

// FormatFromPath derives the format from a file name
func FormatFromPath(path string) string {
	return NormalizeFormat(filepath.Ext(path))
}
