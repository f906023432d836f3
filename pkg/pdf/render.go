package pdf

import (
	"bytes"
	"image"
	"image/color"
	stddraw "image/draw"
	"image/jpeg"

	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Render rasterizes the page into an RGBA image of the given pixel
// size. Image XObjects are placed through the current transformation
// matrix and text is drawn with the embedded font when one is
// available.
func (p *Page) Render(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		width = int(p.Width())
		height = int(p.Height())
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stddraw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, stddraw.Src)

	r := &pageRasterizer{
		page:   p,
		img:    img,
		scaleX: float64(width) / p.Width(),
		scaleY: float64(height) / p.Height(),
	}

	contents, err := p.GetContents()
	if err != nil {
		return img, err
	}
	if len(contents) > 0 {
		r.drawImages(contents)
		r.drawText()
	}
	return img, nil
}

// pageRasterizer draws content stream output into an RGBA image
type pageRasterizer struct {
	page   *Page
	img    *image.RGBA
	scaleX float64
	scaleY float64
}

// deviceX/Y map page coordinates into pixels, flipping the Y axis
func (r *pageRasterizer) deviceX(x float64) int {
	return int((x - r.page.MediaBox.LLX) * r.scaleX)
}

func (r *pageRasterizer) deviceY(y float64) int {
	return r.img.Bounds().Dy() - int((y-r.page.MediaBox.LLY)*r.scaleY)
}

// drawImages walks the content stream and paints image XObjects at
// the position the CTM places them.
func (r *pageRasterizer) drawImages(contents []byte) {
	lexer := NewLexer(contents)
	ctm := identityMatrix()
	var stack [][6]float64
	var operands []Object

	for {
		tok, err := lexer.NextToken()
		if err != nil || tok.Type == TokenEOF {
			break
		}

		if tok.Type != TokenKeyword {
			if obj, ok := contentOperand(lexer, tok); ok {
				operands = append(operands, obj)
			}
			continue
		}

		switch tok.Value.(string) {
		case "q":
			stack = append(stack, ctm)
		case "Q":
			if n := len(stack); n > 0 {
				ctm = stack[n-1]
				stack = stack[:n-1]
			}
		case "cm":
			if m, ok := matrixOperands(operands); ok {
				ctm = multiplyMatrix(m, ctm)
			}
		case "Do":
			if len(operands) == 1 {
				if name, ok := operands[0].(Name); ok {
					r.drawXObject(string(name), ctm)
				}
			}
		}
		operands = operands[:0]
	}
}

// drawXObject decodes and places a single image XObject. The CTM maps
// the unit square onto the destination region.
func (r *pageRasterizer) drawXObject(name string, ctm [6]float64) {
	if r.page.Resources == nil {
		return
	}
	xobjects := r.page.doc.resolveDict(r.page.Resources.Get("XObject"))
	obj, err := r.page.doc.Resolve(xobjects.Get(name))
	if err != nil {
		return
	}
	stream, ok := obj.(Stream)
	if !ok {
		return
	}
	if subtype, _ := stream.Dictionary.GetName("Subtype"); subtype != "Image" {
		return
	}

	src := r.decodeImage(stream)
	if src == nil {
		return
	}

	// Corners of the unit square under the CTM
	x0, y0 := ctm[4], ctm[5]
	x1 := ctm[0] + ctm[2] + ctm[4]
	y1 := ctm[1] + ctm[3] + ctm[5]

	left, right := r.deviceX(min2(x0, x1)), r.deviceX(max2(x0, x1))
	top, bottom := r.deviceY(max2(y0, y1)), r.deviceY(min2(y0, y1))
	if right <= left || bottom <= top {
		return
	}

	dst := image.Rect(left, top, right, bottom)
	xdraw.ApproxBiLinear.Scale(r.img, dst, src, src.Bounds(), xdraw.Over, nil)
}

// decodeImage turns an image XObject stream into a Go image
func (r *pageRasterizer) decodeImage(stream Stream) image.Image {
	filter, _ := stream.Dictionary.GetName("Filter")
	if filterArr, ok := stream.Dictionary.GetArray("Filter"); ok && len(filterArr) > 0 {
		if n, ok := filterArr[len(filterArr)-1].(Name); ok {
			filter = n
		}
	}

	if filter == "DCTDecode" {
		img, err := jpeg.Decode(bytes.NewReader(stream.Data))
		if err != nil {
			return nil
		}
		return img
	}

	data, err := stream.Decode()
	if err != nil {
		return nil
	}

	w, _ := stream.Dictionary.GetInt("Width")
	h, _ := stream.Dictionary.GetInt("Height")
	if w <= 0 || h <= 0 {
		return nil
	}
	bpc, _ := stream.Dictionary.GetInt("BitsPerComponent")
	if bpc == 0 {
		bpc = 8
	}
	colorSpace, _ := stream.Dictionary.GetName("ColorSpace")

	width, height := int(w), int(h)
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	switch {
	case colorSpace == "DeviceRGB" && bpc == 8:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				idx := (y*width + x) * 3
				if idx+2 >= len(data) {
					return img
				}
				img.SetRGBA(x, y, color.RGBA{data[idx], data[idx+1], data[idx+2], 255})
			}
		}
	case colorSpace == "DeviceGray" && bpc == 8:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				idx := y*width + x
				if idx >= len(data) {
					return img
				}
				g := data[idx]
				img.SetRGBA(x, y, color.RGBA{g, g, g, 255})
			}
		}
	case colorSpace == "DeviceGray" && bpc == 1:
		rowBytes := (width + 7) / 8
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				idx := y*rowBytes + x/8
				if idx >= len(data) {
					return img
				}
				var g byte
				if data[idx]&(0x80>>uint(x%8)) != 0 {
					g = 255
				}
				img.SetRGBA(x, y, color.RGBA{g, g, g, 255})
			}
		}
	default:
		return nil
	}
	return img
}

// drawText paints the page text at its extracted positions
func (r *pageRasterizer) drawText() {
	contents, err := r.page.GetContents()
	if err != nil || len(contents) == 0 {
		return
	}

	ex := &textExtractor{
		doc:       r.page.doc,
		resources: r.page.Resources,
		fonts:     make(map[string]*TextFont),
	}
	ex.extract(contents)
	if len(ex.items) == 0 {
		return
	}

	face := r.embeddedFace(12 * r.scaleY)
	if face == nil {
		face = basicfont.Face7x13
	}

	drawer := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	for _, item := range ex.items {
		drawer.Dot = fixed.P(r.deviceX(item.x), r.deviceY(item.y))
		drawer.DrawString(item.text)
	}
}

// embeddedFace loads the first embedded TrueType font of the page
func (r *pageRasterizer) embeddedFace(size float64) font.Face {
	if r.page.Resources == nil {
		return nil
	}
	fonts := r.page.doc.resolveDict(r.page.Resources.Get("Font"))
	for name := range fonts {
		dict := r.page.doc.resolveDict(fonts.Get(string(name)))
		desc := r.page.doc.resolveDict(dict.Get("FontDescriptor"))
		if desc == nil {
			continue
		}
		fileObj, err := r.page.doc.Resolve(desc.Get("FontFile2"))
		if err != nil {
			continue
		}
		stream, ok := fileObj.(Stream)
		if !ok {
			continue
		}
		data, err := stream.Decode()
		if err != nil {
			continue
		}
		ttf, err := truetype.Parse(data)
		if err != nil {
			continue
		}
		return truetype.NewFace(ttf, &truetype.Options{Size: size})
	}
	return nil
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
