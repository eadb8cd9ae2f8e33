package jpeg

// Marker byte identifiers recognized by the segment parser.
// Unrecognized-but-well-formed segments are skipped by
// consuming their declared payload length; unsupported-but-recognized
// ones (progressive/hierarchical/arithmetic frame types) are rejected
// with Unsupported.
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerCOM  = 0xFE
	markerDQT  = 0xDB
	markerDHT  = 0xC4
	markerSOF0 = 0xC0
	markerSOS  = 0xDA
	markerDRI  = 0xDD

	// Unsupported but recognized frame/arithmetic markers: rejected
	// explicitly rather than falling through to "skip".
	markerSOF1  = 0xC1
	markerSOF2  = 0xC2
	markerSOF3  = 0xC3
	markerSOF5  = 0xC5
	markerSOF6  = 0xC6
	markerSOF7  = 0xC7
	markerSOF9  = 0xC9
	markerSOF10 = 0xCA
	markerSOF11 = 0xCB
	markerSOF13 = 0xCD
	markerSOF14 = 0xCE
	markerSOF15 = 0xCF
	markerDAC   = 0xCC
	markerDHP   = 0xDE
	markerEXP   = 0xDF
)

func isAPPMarker(m byte) bool {
	return m >= 0xE0 && m <= 0xEF
}

// Metadata aggregates everything the segment parser produces before
// entropy decoding begins: quant/Huffman tables indexed by id,
// frame and scan records, and collected comments/app data.
type Metadata struct {
	QuantTables  [4]*QuantTable
	HuffmanDC    [4]*HuffmanTable
	HuffmanAC    [4]*HuffmanTable
	Frame        *Frame
	Scan         *Scan
	Comments     []string
	AppSegments  map[uint8][][]byte
	lastComment  string
}

func newMetadata() *Metadata {
	return &Metadata{AppSegments: make(map[uint8][][]byte)}
}

// Parse walks the marker-driven segment stream starting at src's
// current position (expected to be the very first byte of the file,
// i.e. SOI) and returns the aggregated Metadata, including the parsed
// Scan, once it consumes the SOS header. On return, src is positioned
// at the first byte of the entropy-coded segment.
func Parse(src ByteSource) (*Metadata, error) {
	md := newMetadata()

	b0, err := src.ReadByte()
	if err != nil {
		return nil, wrap(err, "Parse")
	}
	b1, err := src.ReadByte()
	if err != nil {
		return nil, wrap(err, "Parse")
	}
	if b0 != 0xFF || b1 != markerSOI {
		return nil, newErr(MalformedSegment, "start: missing SOI")
	}

	sawFrame, sawDQT, sawDHT := false, false, false

	for {
		marker, err := readMarker(src)
		if err != nil {
			return nil, wrap(err, "Parse")
		}

		switch marker {
		case markerSOS:
			if !sawFrame {
				return nil, newErr(MalformedSegment, "SOS before SOF0")
			}
			if !sawDQT {
				return nil, newErr(MalformedSegment, "SOS before any DQT")
			}
			if !sawDHT {
				return nil, newErr(MalformedSegment, "SOS before any DHT")
			}
			payload, err := readLengthPrefixedPayload(src)
			if err != nil {
				return nil, wrap(err, "Parse")
			}
			scan, err := parseSOS(payload)
			if err != nil {
				return nil, err
			}
			md.Scan = scan
			// src is now positioned at the first byte of the
			// entropy-coded segment.
			return md, nil

		case markerEOI:
			return nil, newErr(MalformedSegment, "EOI before SOS")

		default:
			payload, err := readLengthPrefixedPayload(src)
			if err != nil {
				return nil, wrap(err, "Parse")
			}
			switch marker {
			case markerCOM:
				s := string(payload)
				md.Comments = append(md.Comments, s)
				md.lastComment = s

			case markerDQT:
				tables, err := parseDQT(payload)
				if err != nil {
					return nil, err
				}
				for i := range tables {
					t := tables[i]
					md.QuantTables[t.ID] = &t
				}
				sawDQT = true

			case markerDHT:
				if err := parseDHTInto(md, payload); err != nil {
					return nil, err
				}
				sawDHT = true

			case markerSOF0:
				if sawFrame {
					return nil, newErr(MalformedSegment, "duplicate frame")
				}
				frame, err := parseSOF0(payload)
				if err != nil {
					return nil, err
				}
				md.Frame = frame
				sawFrame = true

			case markerSOF1, markerSOF2, markerSOF3, markerSOF5, markerSOF6,
				markerSOF7, markerSOF9, markerSOF10, markerSOF11,
				markerSOF13, markerSOF14, markerSOF15:
				return nil, newErr(Unsupported, "frame marker %#02x (progressive/hierarchical/arithmetic/lossless)", marker)

			case markerDAC:
				return nil, newErr(Unsupported, "arithmetic coding table (DAC)")

			case markerDHP, markerEXP:
				return nil, newErr(Unsupported, "hierarchical mode table %#02x", marker)

			case markerDRI:
				// A nonzero restart interval means the scan carries
				// RSTn markers, which the entropy decoder does not
				// handle, so it is rejected. An interval of 0 disables
				// restarts and is accepted without being recorded.
				if len(payload) >= 2 && (payload[0] != 0 || payload[1] != 0) {
					return nil, newErr(Unsupported, "restart interval %d (restart markers)",
						uint16(payload[0])<<8|uint16(payload[1]))
				}

			default:
				if isAPPMarker(marker) {
					md.AppSegments[marker] = append(md.AppSegments[marker], payload)
				}
				// Any other well-formed segment is skipped: its
				// payload has already been consumed by
				// readLengthPrefixedPayload.
			}
		}
	}
}

// readMarker reads the next 0xFF-prefixed marker identifier byte,
// skipping any fill bytes (0xFF preceding another 0xFF is legal filler
// per the JPEG spec and is simply re-read).
func readMarker(src ByteSource) (byte, error) {
	for {
		b, err := src.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != 0xFF {
			return 0, newErr(MalformedSegment, "expected marker, got %#02x", b)
		}
		id, err := src.ReadByte()
		if err != nil {
			return 0, err
		}
		if id == 0xFF {
			src.PushBack(0xFF)
			continue
		}
		if id == 0x00 {
			return 0, newErr(MalformedSegment, "stray stuffed byte outside entropy-coded data")
		}
		return id, nil
	}
}

// readLengthPrefixedPayload reads the 16-bit big-endian length prefix
// (which includes itself) and returns the payload bytes that follow.
func readLengthPrefixedPayload(src ByteSource) ([]byte, error) {
	hi, err := src.ReadByte()
	if err != nil {
		return nil, err
	}
	lo, err := src.ReadByte()
	if err != nil {
		return nil, err
	}
	length := uint16(hi)<<8 | uint16(lo)
	if length < 2 {
		return nil, newErr(MalformedSegment, "segment length %d below minimum of 2", length)
	}
	payload := make([]byte, length-2)
	for i := range payload {
		b, err := src.ReadByte()
		if err != nil {
			return nil, err
		}
		payload[i] = b
	}
	return payload, nil
}

// parseDHTInto parses one or more Huffman tables packed back to back in
// a single DHT payload and installs them into md.
func parseDHTInto(md *Metadata, payload []byte) error {
	off := 0
	for off < len(payload) {
		if off+17 > len(payload) {
			return newErr(MalformedSegment, "DHT: truncated table header")
		}
		class := payload[off] >> 4
		id := payload[off] & 0x0f
		off++
		if class > 1 {
			return newErr(MalformedSegment, "DHT: invalid class nibble %d", class)
		}
		if id > 3 {
			return newErr(MalformedSegment, "DHT: table id %d out of range", id)
		}

		var counts [16]int
		total := 0
		for i := 0; i < 16; i++ {
			counts[i] = int(payload[off+i])
			total += counts[i]
		}
		off += 16

		if off+total > len(payload) {
			return newErr(MalformedSegment, "DHT: truncated symbol list")
		}
		symbols := append([]uint8(nil), payload[off:off+total]...)
		off += total

		table, err := NewHuffmanTable(class, id, counts, symbols)
		if err != nil {
			return err
		}
		if class == 0 {
			md.HuffmanDC[id] = table
		} else {
			md.HuffmanAC[id] = table
		}
	}
	if off != len(payload) {
		return newErr(MalformedSegment, "DHT: leftover residue after parsing tables")
	}
	return nil
}

// LastComment returns the content of the last COM segment seen, if
// any.
func (md *Metadata) LastComment() (string, bool) {
	return md.lastComment, len(md.Comments) > 0
}
