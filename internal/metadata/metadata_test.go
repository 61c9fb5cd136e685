package metadata

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"morph/pkg/mediautil"
)

func TestVorbisCommentTagsFirstValueWins(t *testing.T) {
	vc := &VorbisComment{Vendor: "test", Comments: []string{
		"ARTIST=First",
		"ARTIST=Second",
		"TITLE=Song",
		"garbage",
	}}

	parsed, err := ParseVorbisComment(vc.Marshal())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Vendor != "test" {
		t.Fatalf("vendor = %q", parsed.Vendor)
	}

	tags := parsed.Tags()
	if tags["ARTIST"] != "First" {
		t.Fatalf("ARTIST = %q, want First", tags["ARTIST"])
	}
	if v, ok := tags.Lookup("title"); !ok || v != "Song" {
		t.Fatalf("case-insensitive lookup failed: %q %v", v, ok)
	}
	if _, ok := tags["garbage"]; ok {
		t.Fatalf("comment without '=' should be ignored")
	}
}

func TestVorbisCommentSet(t *testing.T) {
	vc := &VorbisComment{Comments: []string{"artist=A", "ARTIST=B", "TITLE=T"}}
	vc.Set("Artist", "C")
	vc.Set("album", "X")
	vc.Set("title", "")

	want := []string{"ARTIST=C", "ALBUM=X"}
	if len(vc.Comments) != len(want) {
		t.Fatalf("comments = %#v, want %#v", vc.Comments, want)
	}
	for i := range want {
		if vc.Comments[i] != want[i] {
			t.Fatalf("comments = %#v, want %#v", vc.Comments, want)
		}
	}
}

func TestParseVorbisCommentTruncated(t *testing.T) {
	if _, err := ParseVorbisComment([]byte{0xff, 0, 0, 0, 'a'}); err == nil {
		t.Fatalf("expected error for truncated vendor")
	}
}

func TestReadTagsFLAC(t *testing.T) {
	fsys := afero.NewMemMapFs()
	data := buildFLAC([]string{"ARTIST=Miles", "TITLE=So What"})
	if err := afero.WriteFile(fsys, "/music/track.flac", data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tags, err := NewReader(fsys).ReadTags("/music/track.flac")
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
	if tags["ARTIST"] != "Miles" || tags["TITLE"] != "So What" {
		t.Fatalf("unexpected tags: %#v", tags)
	}
}

func TestWriteFLACTags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.flac")
	if err := os.WriteFile(path, buildFLAC([]string{"ARTIST=Old"}), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := WriteFLACTags(path, map[string]string{"artist": "New", "genre": "Jazz"}); err != nil {
		t.Fatalf("write tags: %v", err)
	}

	tags, err := NewReader(afero.NewOsFs()).ReadTags(path)
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
	if tags["ARTIST"] != "New" || tags["GENRE"] != "Jazz" {
		t.Fatalf("unexpected tags after write: %#v", tags)
	}
}

func TestReadTagsFLACWithoutFrames(t *testing.T) {
	streamInfoOnly := append([]byte("fLaC\x80\x00\x00\x22"), make([]byte, 34)...)
	full := buildFLAC([]string{"ARTIST=Miles"})

	cases := []struct {
		desc    string
		data    []byte
		wantErr bool
		artist  string
	}{
		{"streaminfo only", streamInfoOnly, false, ""},
		{"comments without frames", full, false, "Miles"},
		{"cut inside comment block", full[:len(full)-3], true, ""},
		{"header only", []byte("fLaC"), true, ""},
		{"with frames", append(append([]byte{}, full...), 0xFF, 0xF8, 0x69, 0x08), false, "Miles"},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			if err := afero.WriteFile(fsys, "/music/cut.flac", tc.data, 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}

			tags, err := NewReader(fsys).ReadTags("/music/cut.flac")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got tags %#v", tags)
				}
				return
			}
			if err != nil {
				t.Fatalf("read tags: %v", err)
			}
			if tags["ARTIST"] != tc.artist {
				t.Fatalf("ARTIST = %q, want %q", tags["ARTIST"], tc.artist)
			}
		})
	}
}

func TestWriteFLACTagsKeepsFrames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.flac")
	frames := []byte{0xFF, 0xF8, 0x69, 0x08, 0x00, 0x01}
	data := append(buildFLAC([]string{"ARTIST=Old"}), frames...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := WriteFLACTags(path, map[string]string{"TITLE": "Blue"}); err != nil {
		t.Fatalf("write tags: %v", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasSuffix(written, frames) {
		t.Fatalf("audio frames not preserved")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}

	tags, err := NewReader(afero.NewOsFs()).ReadTags(path)
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
	if tags["ARTIST"] != "Old" || tags["TITLE"] != "Blue" {
		t.Fatalf("unexpected tags after write: %#v", tags)
	}

	cut := filepath.Join(dir, "cut.flac")
	if err := os.WriteFile(cut, []byte("fLaC\x00\x00"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteFLACTags(cut, map[string]string{"TITLE": "x"}); err == nil {
		t.Fatalf("expected error for truncated file")
	}
}

func TestReadTagsJPEG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	if err := buildJPEGWithExif(path); err != nil {
		t.Fatalf("build JPEG: %v", err)
	}

	tags, err := NewReader(afero.NewOsFs()).ReadTags(path)
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
	if tags["Model"] != "TestCam" {
		t.Fatalf("Model = %q, tags %#v", tags["Model"], tags)
	}
	if tags["DateTime"] != "2024:01:02 03:04:05" {
		t.Fatalf("DateTime = %q", tags["DateTime"])
	}
}

func TestReadTagsPNGText(t *testing.T) {
	fsys := afero.NewMemMapFs()
	data, err := buildPNGWithText("Author", "Ana")
	if err != nil {
		t.Fatalf("build PNG: %v", err)
	}
	if err := afero.WriteFile(fsys, "/img/a.png", data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tags, err := NewReader(fsys).ReadTags("/img/a.png")
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
	if tags["Author"] != "Ana" {
		t.Fatalf("unexpected tags: %#v", tags)
	}
}

func TestReadTagsUnsupported(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/notes.txt", []byte("just some text"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewReader(fsys).ReadTags("/notes.txt")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestCollectKeepsOrder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	paths := []string{"/a.flac", "/b.txt", "/c.flac", "/missing.flac"}
	_ = afero.WriteFile(fsys, paths[0], buildFLAC([]string{"TITLE=A"}), 0o644)
	_ = afero.WriteFile(fsys, paths[1], []byte("plain text file"), 0o644)
	_ = afero.WriteFile(fsys, paths[2], buildFLAC([]string{"TITLE=C"}), 0o644)

	reports := Collect(context.Background(), NewReader(fsys), paths, 3)
	if len(reports) != len(paths) {
		t.Fatalf("got %d reports", len(reports))
	}
	for i, r := range reports {
		if r.Path != paths[i] {
			t.Fatalf("report %d path = %s, want %s", i, r.Path, paths[i])
		}
	}
	if reports[0].Tags["TITLE"] != "A" || reports[2].Tags["TITLE"] != "C" {
		t.Fatalf("unexpected tags: %#v / %#v", reports[0].Tags, reports[2].Tags)
	}
	if reports[0].Kind != mediautil.KindFLAC {
		t.Fatalf("kind = %s", reports[0].Kind)
	}
	if !errors.Is(reports[1].Err, ErrUnsupported) {
		t.Fatalf("expected unsupported for text file, got %v", reports[1].Err)
	}
	if reports[3].Err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func buildFLAC(comments []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("fLaC")

	// STREAMINFO, 34 bytes.
	buf.Write([]byte{0x00, 0x00, 0x00, 34})
	buf.Write(make([]byte, 34))

	body := (&VorbisComment{Vendor: "test", Comments: comments}).Marshal()
	n := len(body)
	buf.Write([]byte{0x80 | 0x04, byte(n >> 16), byte(n >> 8), byte(n)})
	buf.Write(body)

	return buf.Bytes()
}

func buildJPEGWithExif(path string) error {
	exifData := buildExifTIFF()
	exif := append([]byte("Exif\x00\x00"), exifData...)

	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})
	buf.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(exif)+2))
	buf.Write(exif)
	buf.Write([]byte{0xff, 0xd9})

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func buildExifTIFF() []byte {
	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0110))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(38))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0132))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(20))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(46))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))
	tiff.Write([]byte("TestCam\x00"))
	tiff.Write([]byte("2024:01:02 03:04:05\x00"))
	return tiff.Bytes()
}

func buildPNGWithText(key, value string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	textChunk := buildPNGChunk("tEXt", []byte(key+"\x00"+value))

	insertAt := len(data) - 12
	out := append([]byte{}, data[:insertAt]...)
	out = append(out, textChunk...)
	out = append(out, data[insertAt:]...)
	return out, nil
}

func buildPNGChunk(chunkType string, data []byte) []byte {
	chunkTypeBytes := []byte(chunkType)
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(data)))
	crc := crc32.ChecksumIEEE(append(chunkTypeBytes, data...))
	crcBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(crcBuf, crc)

	chunk := make([]byte, 0, 12+len(data))
	chunk = append(chunk, lenBuf...)
	chunk = append(chunk, chunkTypeBytes...)
	chunk = append(chunk, data...)
	chunk = append(chunk, crcBuf...)
	return chunk
}
