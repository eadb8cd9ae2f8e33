package jpeg

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind categorizes a decode failure. The decoder never returns a bare
// error for any recognized failure mode; callers can recover the kind
// with errors.As against *DecodeError.
type Kind int

const (
	// UnexpectedEOF means the byte source ended while a required field
	// or bit was expected.
	UnexpectedEOF Kind = iota
	// MalformedSegment means a segment's declared length, marker order,
	// or internal structure is invalid.
	MalformedSegment
	// MalformedHuffman means a Huffman length table overflows the binary
	// tree capacity. (A decode walk that hits a null child is reported
	// as CorruptScan.)
	MalformedHuffman
	// Unsupported means the input uses a feature outside baseline scope:
	// progressive/hierarchical/arithmetic coding, 12-bit precision,
	// restart markers (a nonzero DRI restart interval), a color space
	// other than grayscale/YCbCr, or a sampling factor outside {1,2}.
	// Non-baseline SOS parameters are reported as MalformedSegment.
	Unsupported
	// CorruptScan means entropy decoding violated an invariant mid-block,
	// e.g. an AC run advanced past position 63.
	CorruptScan
)

func (k Kind) String() string {
	switch k {
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case MalformedSegment:
		return "MalformedSegment"
	case MalformedHuffman:
		return "MalformedHuffman"
	case Unsupported:
		return "Unsupported"
	case CorruptScan:
		return "CorruptScan"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DecodeError is the structured error type every decode failure is
// reported as: a kind plus a short diagnostic string.
type DecodeError struct {
	Kind    Kind
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newErr(kind Kind, format string, args ...interface{}) error {
	return &DecodeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrap attaches additional context to an existing DecodeError (or plain
// error) without losing the recoverable Kind.
func wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}

// AsDecodeError extracts the *DecodeError from err, if any.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var errUnexpectedEOF = &DecodeError{Kind: UnexpectedEOF, Message: "unexpected end of input"}
