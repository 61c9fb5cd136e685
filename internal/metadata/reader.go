package metadata

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"morph/pkg/mediautil"
)

// Reader reads embedded tags from audio and image files.
type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// ReadTags returns the tags of the file at path, or ErrUnsupported when the
// format carries none this reader understands.
func (r *Reader) ReadTags(path string) (Tags, error) {
	_, tags, err := r.read(path)
	return tags, err
}

func (r *Reader) read(path string) (mediautil.Kind, Tags, error) {
	file, err := r.fs.Open(path)
	if err != nil {
		return mediautil.KindUnknown, nil, err
	}
	defer file.Close()

	kind, err := mediautil.SniffReader(file)
	if err != nil {
		return kind, nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return kind, nil, err
	}

	switch kind {
	case mediautil.KindFLAC:
		tags, err := readFLAC(file)
		return kind, tags, err
	case mediautil.KindJPEG, mediautil.KindTIFF:
		tags, err := readEXIF(file)
		return kind, tags, err
	case mediautil.KindPNG:
		tags, err := readPNGText(file)
		if err != nil {
			return kind, nil, err
		}
		if exifTags, exifErr := readEXIF(file); exifErr == nil {
			for name, value := range exifTags {
				tags.Add(name, value)
			}
		} else {
			log.Debug().Err(exifErr).Str("path", path).Msg("png exif skipped")
		}
		return kind, tags, nil
	default:
		return kind, nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
}
