package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// VorbisComment is the payload of a FLAC VORBIS_COMMENT block.
type VorbisComment struct {
	Vendor   string
	Comments []string
}

func ParseVorbisComment(data []byte) (*VorbisComment, error) {
	r := bytes.NewReader(data)

	vendor, err := readVorbisString(r)
	if err != nil {
		return nil, fmt.Errorf("vendor: %w", err)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("comment count: %w", err)
	}

	comments := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		c, err := readVorbisString(r)
		if err != nil {
			return nil, fmt.Errorf("comment %d: %w", i, err)
		}
		comments = append(comments, c)
	}

	return &VorbisComment{Vendor: vendor, Comments: comments}, nil
}

func readVorbisString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if int64(n) > int64(r.Len()) {
		return "", io.ErrUnexpectedEOF
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (vc *VorbisComment) Marshal() []byte {
	buf := new(bytes.Buffer)

	_ = binary.Write(buf, binary.LittleEndian, uint32(len(vc.Vendor)))
	buf.WriteString(vc.Vendor)

	_ = binary.Write(buf, binary.LittleEndian, uint32(len(vc.Comments)))
	for _, c := range vc.Comments {
		_ = binary.Write(buf, binary.LittleEndian, uint32(len(c)))
		buf.WriteString(c)
	}
	return buf.Bytes()
}

// Tags returns the first value of every NAME=value comment.
func (vc *VorbisComment) Tags() Tags {
	tags := Tags{}
	for _, c := range vc.Comments {
		name, value, ok := strings.Cut(c, "=")
		if !ok {
			continue
		}
		tags.Add(name, value)
	}
	return tags
}

// Set replaces every comment named name (case-insensitive) with a single
// NAME=value entry. An empty value removes the tag.
func (vc *VorbisComment) Set(name, value string) {
	out := make([]string, 0, len(vc.Comments)+1)
	replaced := false
	for _, c := range vc.Comments {
		key, _, ok := strings.Cut(c, "=")
		if ok && strings.EqualFold(key, name) {
			if !replaced && value != "" {
				out = append(out, strings.ToUpper(name)+"="+value)
			}
			replaced = true
			continue
		}
		out = append(out, c)
	}
	if !replaced && value != "" {
		out = append(out, strings.ToUpper(name)+"="+value)
	}
	vc.Comments = out
}
