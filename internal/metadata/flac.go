package metadata

import (
	"fmt"
	"io"
	"os"

	"github.com/go-flac/go-flac"
)

const vendorString = "morph"

// readFLAC reads only the metadata blocks, so files cut off before or
// inside the audio frames still yield their tags.
func readFLAC(r io.Reader) (Tags, error) {
	f, err := flac.ParseMetadata(r)
	if err != nil {
		return nil, fmt.Errorf("parse flac: %w", err)
	}

	tags := Tags{}
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		cmts, err := ParseVorbisComment(block.Data)
		if err != nil {
			return nil, fmt.Errorf("parse vorbis comments: %w", err)
		}
		for name, value := range cmts.Tags() {
			tags.Add(name, value)
		}
	}
	return tags, nil
}

// WriteFLACTags updates the Vorbis comments of the FLAC file at path.
// Tags mapped to an empty value are removed. A comment block is created
// when the file has none. Audio frames are copied through untouched.
func WriteFLACTags(path string, updates map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return err
	}

	f, err := flac.ParseMetadata(file)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("parse flac: %w", err)
	}
	frames, err := io.ReadAll(file)
	_ = file.Close()
	if err != nil {
		return fmt.Errorf("read flac frames: %w", err)
	}
	f.Frames = frames

	var cmtBlock *flac.MetaDataBlock
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment {
			cmtBlock = block
			break
		}
	}

	cmts := &VorbisComment{Vendor: vendorString}
	if cmtBlock != nil {
		cmts, err = ParseVorbisComment(cmtBlock.Data)
		if err != nil {
			return fmt.Errorf("parse vorbis comments: %w", err)
		}
	}

	for name, value := range updates {
		cmts.Set(name, value)
	}

	if cmtBlock == nil {
		cmtBlock = &flac.MetaDataBlock{Type: flac.VorbisComment}
		f.Meta = append(f.Meta, cmtBlock)
	}
	cmtBlock.Data = cmts.Marshal()

	return os.WriteFile(path, f.Marshal(), info.Mode().Perm())
}
