package jpeg

// QuantTable is a Define Quantization Table (DQT) entry: 64 values
// addressed by table id, delivered and stored in zig-zag order so
// dequantization is a straight index-for-index multiply against a
// block also held in zig-zag order.
type QuantTable struct {
	ID        uint8
	Precision uint8 // 1 or 2 (bytes per entry), validated once up front
	Values    [64]uint16
}

// parseDQT parses one or more quantization tables packed back to back
// in a single DQT payload.
func parseDQT(payload []byte) ([]QuantTable, error) {
	var tables []QuantTable
	off := 0
	for off < len(payload) {
		pq := payload[off] >> 4
		tq := payload[off] & 0x0f
		off++

		var precision uint8
		switch pq {
		case 0:
			precision = 1
		case 1:
			precision = 2
		default:
			return nil, newErr(MalformedSegment, "DQT: invalid precision nibble %d", pq)
		}
		if tq > 3 {
			return nil, newErr(MalformedSegment, "DQT: table id %d out of range", tq)
		}

		need := 64 * int(precision)
		if off+need > len(payload) {
			return nil, newErr(MalformedSegment, "DQT: truncated table payload")
		}

		var qt QuantTable
		qt.ID = tq
		qt.Precision = precision
		for i := 0; i < 64; i++ {
			if precision == 1 {
				qt.Values[i] = uint16(payload[off])
				off++
			} else {
				qt.Values[i] = uint16(payload[off])<<8 | uint16(payload[off+1])
				off += 2
			}
		}
		tables = append(tables, qt)
	}
	return tables, nil
}
