package metadata

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// maxTextChunk bounds the tEXt payload read into memory.
const maxTextChunk = 1 << 20

func readPNGText(rs io.ReadSeeker) (Tags, error) {
	tags := Tags{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return tags, err
	}

	br := bufio.NewReader(rs)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return tags, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return tags, errors.New("invalid PNG signature")
	}

	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				return tags, nil
			}
			return tags, err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(br, chunkType); err != nil {
			return tags, err
		}
		chunkName := string(chunkType)

		if chunkName == "tEXt" && length <= maxTextChunk {
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return tags, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return tags, err
			}
			if key, value, ok := splitPNGText(data); ok {
				tags.Add(key, value)
			}
			continue
		}

		if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
			return tags, err
		}
		if chunkName == "IEND" {
			return tags, nil
		}
	}
}

// splitPNGText separates a tEXt payload into its keyword and Latin-1 text.
func splitPNGText(data []byte) (string, string, bool) {
	idx := bytes.IndexByte(data, 0)
	if idx <= 0 {
		return "", "", false
	}
	text := data[idx+1:]
	runes := make([]rune, len(text))
	for i, b := range text {
		runes[i] = rune(b)
	}
	return string(data[:idx]), string(runes), true
}
