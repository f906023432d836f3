package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestAppendImagePage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	d := NewEmptyDocument()
	if err := d.AppendImagePage(img); err != nil {
		t.Fatal(err)
	}
	if d.NumPages() != 1 {
		t.Fatalf("pages: got %d, want 1", d.NumPages())
	}

	out := roundTrip(t, d)
	defer out.Close()

	page, err := out.GetPage(1)
	if err != nil {
		t.Fatal(err)
	}
	if page.Width() != 40 || page.Height() != 30 {
		t.Errorf("page size: got %gx%g, want 40x30", page.Width(), page.Height())
	}

	rendered, err := page.Render(40, 30)
	if err != nil {
		t.Fatal(err)
	}
	r, g, _, _ := rendered.At(20, 15).RGBA()
	if r>>8 < 150 || g>>8 > 150 {
		t.Errorf("center pixel: got %v, want the source color", rendered.At(20, 15))
	}
}

func TestAppendJPEGPage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 180, B: 30, A: 255})
		}
	}
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, img, nil); err != nil {
		t.Fatal(err)
	}

	d := NewEmptyDocument()
	if err := d.AppendJPEGPage(jpg.Bytes()); err != nil {
		t.Fatal(err)
	}

	out := roundTrip(t, d)
	defer out.Close()

	page, err := out.GetPage(1)
	if err != nil {
		t.Fatal(err)
	}
	if page.Width() != 24 || page.Height() != 16 {
		t.Errorf("page size: got %gx%g, want 24x16", page.Width(), page.Height())
	}
}

func TestAppendJPEGPageBadData(t *testing.T) {
	d := NewEmptyDocument()
	if err := d.AppendJPEGPage([]byte("not a jpeg")); err == nil {
		t.Error("invalid JPEG data should fail")
	}
}
