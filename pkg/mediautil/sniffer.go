package mediautil

import (
	"bytes"
	"errors"
	"io"

	"github.com/spf13/afero"
)

// Kind identifies a file type that can carry readable tags.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindTIFF
	KindFLAC
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindTIFF:
		return "tiff"
	case KindFLAC:
		return "flac"
	default:
		return "unknown"
	}
}

// HeaderSize is the number of leading bytes DetectHeader needs.
const HeaderSize = 8

var (
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
	flacSig   = []byte("fLaC")
)

var errShortHeader = errors.New("header too short")

// DetectHeader inspects the first bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < 4 {
		return KindUnknown, errShortHeader
	}

	switch {
	case bytes.HasPrefix(header, flacSig):
		return KindFLAC, nil
	case bytes.HasPrefix(header, jpegSig):
		return KindJPEG, nil
	case bytes.HasPrefix(header, tiffSigLE), bytes.HasPrefix(header, tiffSigBE):
		return KindTIFF, nil
	case bytes.HasPrefix(header, pngSig):
		return KindPNG, nil
	}

	return KindUnknown, nil
}

// SniffFile reads the head of a file to determine its type.
func SniffFile(fsys afero.Fs, path string) (Kind, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads up to HeaderSize bytes from r and determines its type.
// Files shorter than a signature are reported as unknown without error.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return KindUnknown, err
	}

	kind, err := DetectHeader(header[:n])
	if errors.Is(err, errShortHeader) {
		return KindUnknown, nil
	}
	return kind, err
}
