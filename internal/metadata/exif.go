package metadata

import (
	"io"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

func readEXIF(rs io.ReadSeeker) (Tags, error) {
	tags := Tags{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return tags, err
	}

	entries, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if errorsIsNoExif(err) {
			return tags, nil
		}
		return tags, err
	}

	for _, entry := range entries {
		// Thumbnail IFDs repeat main-image tags; IFD0 values win.
		if strings.HasPrefix(entry.IfdPath, "IFD1") {
			continue
		}
		value := strings.TrimRight(entry.FormattedFirst, "\x00 ")
		tags.Add(entry.TagName, value)
	}

	return tags, nil
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
