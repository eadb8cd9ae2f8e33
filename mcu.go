package jpeg

// componentPlane holds one component's decoded samples at its native
// (possibly subsampled) resolution, padded up to a whole number of
// 8x8 blocks in each direction.
type componentPlane struct {
	width, height int // padded dimensions, in samples
	samples       []uint8
}

func newComponentPlane(width, height int) *componentPlane {
	return &componentPlane{width: width, height: height, samples: make([]uint8, width*height)}
}

func (p *componentPlane) set(x, y int, v uint8) {
	p.samples[y*p.width+x] = v
}

func (p *componentPlane) at(x, y int) uint8 {
	if x >= p.width {
		x = p.width - 1
	}
	if y >= p.height {
		y = p.height - 1
	}
	return p.samples[y*p.width+x]
}

// ceilDiv8 rounds n up to the next multiple of 8.
func ceilDiv8(n int) int {
	return (n + 7) / 8 * 8
}

// decodeScan decodes every MCU in the image, in raster order, and
// returns one componentPlane per frame component, each holding fully
// reconstructed (dequantized, inverse-transformed) 8-bit samples.
//
// The MCU loop advances the horizontal cursor before checking the
// vertical one: a partially filled final MCU column ends the row and
// moves to the next, rather than leaving a dangling half MCU checked
// against height first. It also stops as soon as the bit stream
// reports termination (a marker found before the declared grid filled),
// rather than letting the next decodeBlock surface a spurious EOF.
func decodeScan(bs *BitStream, md *Metadata) ([]*componentPlane, error) {
	frame := md.Frame
	scan := md.Scan

	mcuWidth := 8 * int(frame.HMax)
	mcuHeight := 8 * int(frame.VMax)
	mcusX := (int(frame.Width) + mcuWidth - 1) / mcuWidth
	mcusY := (int(frame.Height) + mcuHeight - 1) / mcuHeight

	planes := make([]*componentPlane, len(frame.Components))
	decoders := make([]*blockDecoder, len(frame.Components))
	quant := make([]*QuantTable, len(frame.Components))

	for i, comp := range frame.Components {
		planeWidth := mcusX * 8 * int(comp.H)
		planeHeight := mcusY * 8 * int(comp.V)
		planes[i] = newComponentPlane(planeWidth, planeHeight)

		var sc *ScanComponent
		for j := range scan.Components {
			if scan.Components[j].ComponentID == comp.ID {
				sc = &scan.Components[j]
				break
			}
		}
		if sc == nil {
			return nil, newErr(MalformedSegment, "component id %d in frame has no matching scan component", comp.ID)
		}
		dc := md.HuffmanDC[sc.DCTableID]
		ac := md.HuffmanAC[sc.ACTableID]
		if dc == nil {
			return nil, newErr(MalformedSegment, "scan references undefined DC table %d", sc.DCTableID)
		}
		if ac == nil {
			return nil, newErr(MalformedSegment, "scan references undefined AC table %d", sc.ACTableID)
		}
		decoders[i] = &blockDecoder{dcTable: dc, acTable: ac}

		qt := md.QuantTables[comp.QTableID]
		if qt == nil {
			return nil, newErr(MalformedSegment, "component references undefined quantization table %d", comp.QTableID)
		}
		quant[i] = qt
	}

	curY := 0
	for curY < mcusY && !bs.Finished() {
		curX := 0
		for curX < mcusX && !bs.Finished() {
			for ci, comp := range frame.Components {
				for by := 0; by < int(comp.V); by++ {
					for bx := 0; bx < int(comp.H); bx++ {
						zz, err := decoders[ci].decodeBlock(bs)
						if err != nil {
							return nil, err
						}
						dq := dequantizeBlock(zz, quant[ci])
						natural := FromZigZag(dq)
						pixels := inverseDCT8(natural)

						originX := (curX*int(comp.H) + bx) * 8
						originY := (curY*int(comp.V) + by) * 8
						for py := 0; py < 8; py++ {
							for px := 0; px < 8; px++ {
								planes[ci].set(originX+px, originY+py, pixels[py*8+px])
							}
						}
					}
				}
			}
			curX++
		}
		curY++
	}

	return planes, nil
}
