package jpeg

// Block holds 64 samples of an 8x8 unit, either zig-zag ordered
// (as decoded off the wire) or natural row-major order (after
// FromZigZag).
type Block [64]int16

// zigZagOrder[i] is the natural row-major index of the i-th coefficient
// in zig-zag traversal order.
var zigZagOrder = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// FromZigZag reorders a zig-zag ordered block into natural (row-major)
// order: out[zigZagOrder[i]] = in[i].
func FromZigZag(in Block) Block {
	var out Block
	for i, natural := range zigZagOrder {
		out[natural] = in[i]
	}
	return out
}

// ToZigZag is the inverse of FromZigZag: out[i] = in[zigZagOrder[i]].
func ToZigZag(in Block) Block {
	var out Block
	for i, natural := range zigZagOrder {
		out[i] = in[natural]
	}
	return out
}
