package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 12), G: uint8(y * 25), B: 128, A: 255})
		}
	}
	return img
}

func TestEncodeFormats(t *testing.T) {
	src := testImage()
	for _, format := range []string{"png", "jpeg", "jpg", "gif", "bmp", "tiff", "tif"} {
		data, err := Encode(src, format)
		if err != nil {
			t.Errorf("%s: %v", format, err)
			continue
		}
		img, name, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			t.Errorf("%s: decoding output: %v", format, err)
			continue
		}
		if want := NormalizeFormat(format); name != want {
			t.Errorf("%s: decoded as %q, want %q", format, name, want)
		}
		if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
			t.Errorf("%s: bounds %v, want 20x10", format, b)
		}
	}
}

func TestEncodeCaseAndDot(t *testing.T) {
	src := testImage()
	if _, err := Encode(src, ".PNG"); err != nil {
		t.Errorf("format with dot and upper case: %v", err)
	}
}

func TestEncodeWebPUnsupported(t *testing.T) {
	if _, err := Encode(testImage(), "webp"); err == nil {
		t.Error("webp encoding should fail")
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if _, err := Encode(testImage(), "xyz"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestNormalizeFormat(t *testing.T) {
	cases := []struct{ in, want string }{
		{"png", "png"},
		{".png", "png"},
		{"PNG", "png"},
		{"jpg", "jpeg"},
		{".JPG", "jpeg"},
		{"jpeg", "jpeg"},
		{"tif", "tiff"},
		{".TIF", "tiff"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeFormat(tc.in); got != tc.want {
			t.Errorf("NormalizeFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/tmp/scan.JPG", "jpeg"},
		{"page.png", "png"},
		{"archive.tif", "tiff"},
		{"noextension", ""},
	}
	for _, tc := range cases {
		if got := FormatFromPath(tc.in); got != tc.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	img, format, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("bounds %v, want 20x10", b)
	}
}

func TestDecodeMissingFile(t *testing.T) {
	if _, _, err := Decode(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Error("missing file should fail")
	}
}
