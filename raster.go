package jpeg

import (
	"image"
	"image/color"
)

// RGB is one output pixel, full 8-bit range per channel.
type RGB struct {
	R, G, B uint8
}

// Raster is the final decoded image: dimensions plus a row-major pixel
// buffer, along with the comment carried over from the source file (if
// any), for callers that want it without digging into Metadata.
type Raster struct {
	Width, Height int
	Pixels        []RGB
	Comment       string
}

func (r *Raster) at(x, y int) RGB {
	return r.Pixels[y*r.Width+x]
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// ycbcrToRGB converts one YCbCr triple (already in 8-bit unsigned
// range) to RGB using the standard JFIF conversion matrix.
func ycbcrToRGB(y, cb, cr uint8) RGB {
	fy := float64(y)
	fcb := float64(cb) - 128
	fcr := float64(cr) - 128

	r := fy + 1.402*fcr
	g := fy - 0.344136*fcb - 0.714136*fcr
	b := fy + 1.772*fcb

	return RGB{R: clamp255(r), G: clamp255(g), B: clamp255(b)}
}

// assembleRaster upsamples each component plane by nearest neighbour
// to full resolution and combines them into final pixels: a single
// grayscale component maps straight to R=G=B; three components are
// treated as Y/Cb/Cr in component order.
func assembleRaster(frame *Frame, planes []*componentPlane) *Raster {
	width := int(frame.Width)
	height := int(frame.Height)
	out := &Raster{Width: width, Height: height, Pixels: make([]RGB, width*height)}

	hMax, vMax := int(frame.HMax), int(frame.VMax)

	if len(planes) == 1 {
		comp := frame.Components[0]
		plane := planes[0]
		for row := 0; row < height; row++ {
			sy := row * int(comp.V) / vMax
			for col := 0; col < width; col++ {
				sx := col * int(comp.H) / hMax
				v := plane.at(sx, sy)
				out.Pixels[row*width+col] = RGB{R: v, G: v, B: v}
			}
		}
		return out
	}

	yComp, cbComp, crComp := frame.Components[0], frame.Components[1], frame.Components[2]
	yPlane, cbPlane, crPlane := planes[0], planes[1], planes[2]

	for row := 0; row < height; row++ {
		sy0 := row * int(yComp.V) / vMax
		sy1 := row * int(cbComp.V) / vMax
		sy2 := row * int(crComp.V) / vMax
		for col := 0; col < width; col++ {
			sx0 := col * int(yComp.H) / hMax
			sx1 := col * int(cbComp.H) / hMax
			sx2 := col * int(crComp.H) / hMax

			y := yPlane.at(sx0, sy0)
			cb := cbPlane.at(sx1, sy1)
			cr := crPlane.at(sx2, sy2)
			out.Pixels[row*width+col] = ycbcrToRGB(y, cb, cr)
		}
	}
	return out
}

// ToImage renders the raster as a standard library image.Image, for
// callers that want to hand it to image/png, image/jpeg, or any other
// stdlib-compatible consumer.
func (r *Raster) ToImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			px := r.at(x, y)
			img.SetRGBA(x, y, color.RGBA{R: px.R, G: px.G, B: px.B, A: 255})
		}
	}
	return img
}
