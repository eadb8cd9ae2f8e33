package jpeg

// BitStream delivers a monotone stream of bits, MSB-first within each
// byte, out of an underlying ByteSource. When destuffing is enabled (as
// it always is for entropy-coded scan data) a 0xFF byte followed by
// 0x00 is treated as a literal 0xFF with the 0x00 discarded, and a 0xFF
// followed by any other nonzero byte terminates the stream: the two
// bytes are pushed back onto the source and further reads report end of
// stream.
type BitStream struct {
	src        ByteSource
	destuff    bool
	cur        byte
	bitsLeft   uint // bits remaining in cur, counted down from 8
	terminated bool
}

// NewBitStream wraps src. destuff should be true for entropy-coded scan
// data (the only place byte stuffing occurs in baseline JPEG).
func NewBitStream(src ByteSource, destuff bool) *BitStream {
	return &BitStream{src: src, destuff: destuff}
}

// Finished reports whether the stream has hit its terminator (a real
// marker immediately following the entropy-coded data) and will not
// produce any more bits.
func (b *BitStream) Finished() bool {
	return b.terminated
}

// fillByte loads the next post-destuffing byte into cur. Returns false
// (without error) once the stream is terminated.
func (b *BitStream) fillByte() (bool, error) {
	raw, err := b.src.ReadByte()
	if err != nil {
		b.terminated = true
		return false, nil
	}
	if raw == 0xFF && b.destuff {
		next, err := b.src.ReadByte()
		if err != nil {
			b.terminated = true
			return false, nil
		}
		if next != 0x00 {
			b.src.PushBack(raw, next)
			b.terminated = true
			return false, nil
		}
		// 0xFF 0x00 -> literal 0xFF
	}
	b.cur = raw
	b.bitsLeft = 8
	return true, nil
}

// NextBit returns the next bit (0 or 1) MSB-first. Once the stream is
// terminated it returns 0, consistent with treating a truncated tail as
// an implicit run of zero bits so the block decoder can end gracefully.
func (b *BitStream) NextBit() byte {
	if b.terminated {
		return 0
	}
	if b.bitsLeft == 0 {
		if ok, _ := b.fillByte(); !ok {
			return 0
		}
	}
	bit := (b.cur >> 7) & 1
	b.cur <<= 1
	b.bitsLeft--
	return bit
}

// NextBits reads n bits (0 <= n <= 32) and composes them into an
// unsigned integer by repeatedly shifting the running value left and
// adding in each new bit, big-endian within the magnitude — the style
// the decoder uses throughout (e.g. reading AC/DC magnitude bits).
func (b *BitStream) NextBits(n uint) uint32 {
	var v uint32
	for i := uint(0); i < n; i++ {
		v = (v << 1) | uint32(b.NextBit())
	}
	return v
}

// NextByte reads 8 bits into a single byte.
func (b *BitStream) NextByte() byte {
	return byte(b.NextBits(8))
}
