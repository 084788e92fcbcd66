// Package replay reads and writes the flatbuffer replay format.
package replay

import (
	"bytes"
	"fmt"
	"io"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/gzip"

	"battlecode-client/internal/playback"
	"battlecode-client/internal/schema"
)

// MaxDecompressedSize bounds the size of a gzip-compressed replay once inflated.
const MaxDecompressedSize = 512 << 20

// Decode reads a complete replay file. The input may be gzip-compressed and
// may carry a size prefix. On any error no game is returned.
func Decode(buf []byte) (*playback.Game, error) {
	data, err := decompress(buf)
	if err != nil {
		return nil, decodeError(-1, err)
	}
	return decodeWrapper(data)
}

func decodeWrapper(data []byte) (g *playback.Game, err error) {
	if len(data) < 8 {
		return nil, decodeError(-1, fmt.Errorf("%w: %d bytes", ErrMalformed, len(data)))
	}
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, decodeError(-1, fmt.Errorf("%w: %v", ErrMalformed, r))
		}
	}()

	var root *schema.GameWrapper
	if sizePrefixed(data) {
		root = schema.GetSizePrefixedRootAsGameWrapper(data, 0)
	} else {
		root = schema.GetRootAsGameWrapper(data, 0)
	}

	if err := checkIndex(root); err != nil {
		return nil, decodeError(-1, err)
	}

	b := NewBuilder()
	var ew schema.EventWrapper
	for i := 0; i < root.EventsLength(); i++ {
		if !root.Events(&ew, i) {
			return nil, decodeError(i, ErrMalformed)
		}
		if err := b.add(&ew); err != nil {
			return nil, decodeError(i, err)
		}
	}
	if !b.Done() {
		return nil, decodeError(-1, ErrTruncated)
	}
	if n := len(b.Game().Matches()); n != root.MatchHeadersLength() {
		return nil, decodeError(-1, fmt.Errorf("%w: %d matches, %d indexed", ErrBadIndex, n, root.MatchHeadersLength()))
	}
	return b.Game(), nil
}

// checkIndex validates the header and footer index vectors against the
// event list: one footer per header, each pair in order and pointing at
// the right event types.
func checkIndex(root *schema.GameWrapper) error {
	n := root.EventsLength()
	headers, footers := root.MatchHeadersLength(), root.MatchFootersLength()
	if headers != footers {
		return fmt.Errorf("%w: %d headers, %d footers", ErrBadIndex, headers, footers)
	}

	var ew schema.EventWrapper
	kind := func(i int32) schema.Event {
		if i < 0 || int(i) >= n || !root.Events(&ew, int(i)) {
			return schema.EventNONE
		}
		return ew.EType()
	}

	prev := int32(-1)
	for i := 0; i < headers; i++ {
		h, f := root.MatchHeaders(i), root.MatchFooters(i)
		if h <= prev || f <= h {
			return fmt.Errorf("%w: match %d spans events %d..%d", ErrBadIndex, i, h, f)
		}
		if kind(h) != schema.EventMatchHeader {
			return fmt.Errorf("%w: match %d header at event %d", ErrBadIndex, i, h)
		}
		if kind(f) != schema.EventMatchFooter {
			return fmt.Errorf("%w: match %d footer at event %d", ErrBadIndex, i, f)
		}
		prev = f
	}
	return nil
}

// sizePrefixed reports whether the buffer starts with its own length.
func sizePrefixed(data []byte) bool {
	return len(data) >= 8 && int(flatbuffers.GetUint32(data)) == len(data)-flatbuffers.SizeUint32
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

func decompress(buf []byte) ([]byte, error) {
	if !isGzip(buf) {
		return buf, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, MaxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(data) > MaxDecompressedSize {
		return nil, fmt.Errorf("%w: inflated replay exceeds %d bytes", ErrMalformed, MaxDecompressedSize)
	}
	return data, nil
}
