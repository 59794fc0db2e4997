package sdb

import "github.com/golang/snappy"

const (
	lz77Window   = 1024 // look-back window size
	lz77MinMatch = 3    // shortest match worth a token
	lz77MaxMatch = 255  // length field is a single byte

	lz77Literal = 0
	lz77Match   = 1
)

// compress appends the compressed form of src to dst[:0] and returns the
// resulting slice. dst is a reusable scratch buffer and may be nil.
func (c Compression) compress(dst, src []byte) ([]byte, error) {
	switch c {
	case NoCompression:
		return append(dst[:0], src...), nil
	case RLECompression:
		return rleCompress(dst[:0], src), nil
	case LZ77Compression:
		return lz77Compress(dst[:0], src), nil
	case SnappyCompression:
		return snappy.Encode(dst[:cap(dst)], src), nil
	}
	return nil, errBadCompression
}

// decompress expands src into a freshly allocated slice of originalLen
// bytes. Malformed input of any shape yields ErrCorruptData.
func (c Compression) decompress(src []byte, originalLen int) ([]byte, error) {
	if originalLen < 0 {
		return nil, ErrCorruptData
	}
	if originalLen == 0 && len(src) == 0 {
		return nil, nil
	}

	switch c {
	case NoCompression:
		if len(src) != originalLen {
			return nil, ErrCorruptData
		}
		return append(make([]byte, 0, len(src)), src...), nil
	case RLECompression:
		return rleDecompress(src, originalLen)
	case LZ77Compression:
		return lz77Decompress(src, originalLen)
	case SnappyCompression:
		if sz, err := snappy.DecodedLen(src); err != nil || sz != originalLen {
			return nil, ErrCorruptData
		}
		plain, err := snappy.Decode(make([]byte, originalLen), src)
		if err != nil {
			return nil, ErrCorruptData
		}
		return plain, nil
	}
	return nil, errBadCompression
}

// --------------------------------------------------------------------

// rleCompress emits (count, value) pairs. Runs longer than 255 bytes are
// split, so output may reach twice the input size on high-entropy data.
func rleCompress(dst, src []byte) []byte {
	for i := 0; i < len(src); {
		n := 1
		for i+n < len(src) && src[i+n] == src[i] && n < 255 {
			n++
		}
		dst = append(dst, byte(n), src[i])
		i += n
	}
	return dst
}

func rleDecompress(src []byte, originalLen int) ([]byte, error) {
	if len(src)%2 != 0 {
		return nil, ErrCorruptData
	}

	// zero-length runs are never written
	total := 0
	for i := 0; i < len(src); i += 2 {
		if src[i] == 0 {
			return nil, ErrCorruptData
		}
		total += int(src[i])
	}
	if total != originalLen {
		return nil, ErrCorruptData
	}

	out := make([]byte, 0, total)
	for i := 0; i < len(src); i += 2 {
		for n := int(src[i]); n > 0; n-- {
			out = append(out, src[i+1])
		}
	}
	return out, nil
}

// --------------------------------------------------------------------

// lz77Compress emits a token stream of literals (0x00, byte) and matches
// (0x01, offset uint16 LE, length uint8). The search is a plain scan of
// every window position, which is O(n·W) but adequate for the file sizes
// this store targets.
func lz77Compress(dst, src []byte) []byte {
	for i := 0; i < len(src); {
		limit := len(src) - i
		if limit > lz77MaxMatch {
			limit = lz77MaxMatch
		}

		min := i - lz77Window
		if min < 0 {
			min = 0
		}

		// longest match wins, smallest offset on ties
		bestLen, bestOff := 0, 0
		for j := min; j < i; j++ {
			n := 0
			for n < limit && src[j+n] == src[i+n] {
				n++
			}
			if n > bestLen || (n == bestLen && n > 0 && i-j < bestOff) {
				bestLen, bestOff = n, i-j
			}
		}

		if bestLen >= lz77MinMatch {
			dst = append(dst, lz77Match, byte(bestOff), byte(bestOff>>8), byte(bestLen))
			i += bestLen
		} else {
			dst = append(dst, lz77Literal, src[i])
			i++
		}
	}
	return dst
}

func lz77Decompress(src []byte, originalLen int) ([]byte, error) {
	out := make([]byte, 0, originalLen)
	for i := 0; i < len(src); {
		switch src[i] {
		case lz77Literal:
			if i+2 > len(src) {
				return nil, ErrCorruptData
			}
			out = append(out, src[i+1])
			i += 2
		case lz77Match:
			if i+4 > len(src) {
				return nil, ErrCorruptData
			}
			off := int(src[i+1]) | int(src[i+2])<<8
			length := int(src[i+3])
			if off < 1 || off > len(out) {
				return nil, ErrCorruptData
			}

			// length may exceed offset: the match copies bytes it
			// produces itself, so this must stay a byte-wise loop.
			pos := len(out) - off
			for n := 0; n < length; n++ {
				out = append(out, out[pos+n])
			}
			i += 4
		default:
			return nil, ErrCorruptData
		}
	}
	if len(out) != originalLen {
		return nil, ErrCorruptData
	}
	return out, nil
}
