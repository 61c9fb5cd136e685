package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrInvalidMask = errors.New("invalid name mask")

// maskTimeout bounds matching the mask against a single name.
const maskTimeout = 2 * time.Second

// Entry is one filesystem object found by Scan.
type Entry struct {
	Path   string
	Name   string
	IsDir  bool
	IsFile bool
}

type Options struct {
	// Mask is matched against entry names, anchored at the start. Empty
	// matches everything.
	Mask string
	// Extensions are name suffixes; an entry must end with one of them when
	// any are given. Matching is case-sensitive.
	Extensions []string

	Folders bool
	Files   bool
	Hidden  bool

	MinLen int
	// MaxLen < 0 disables the upper bound.
	MaxLen int

	// Depth is how many directory levels below root to descend. -1 is
	// unlimited.
	Depth int
}

func DefaultOptions() Options {
	return Options{
		Folders: true,
		Files:   true,
		MaxLen:  255,
	}
}

// Warning records a subtree that could not be read.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

type Result struct {
	Entries  []Entry
	Warnings []Warning
}

// Scan lists root according to opts. Entries come back unsorted. Errors
// below root drop that subtree and are reported as warnings; an unreadable
// root is an error.
func Scan(fs afero.Fs, root string, opts Options) (Result, error) {
	var mask *regexp2.Regexp
	if opts.Mask != "" {
		re, err := compileMask(opts.Mask)
		if err != nil {
			return Result{}, err
		}
		mask = re
	}

	s := &scan{fs: fs, opts: opts, mask: mask}
	root = filepath.Clean(root)
	infos, err := afero.ReadDir(fs, root)
	if err != nil {
		return Result{}, err
	}
	s.level(root, infos, opts.Depth)
	return s.result, nil
}

// compileMask anchors mask at the start of the name.
func compileMask(mask string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(`\A(?:`+mask+`)`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMask, err)
	}
	re.MatchTimeout = maskTimeout
	return re, nil
}

type scan struct {
	fs     afero.Fs
	opts   Options
	mask   *regexp2.Regexp
	result Result
}

func (s *scan) level(dir string, infos []os.FileInfo, depth int) {
	for _, info := range infos {
		path := filepath.Join(dir, info.Name())

		linked := info.Mode()&os.ModeSymlink != 0
		if linked {
			target, err := s.fs.Stat(path)
			if err != nil {
				log.Debug().Err(err).Str("path", path).Msg("dangling symlink")
			} else {
				info = target
			}
		}

		entry := Entry{
			Path:   path,
			Name:   filepath.Base(path),
			IsDir:  info.IsDir(),
			IsFile: info.Mode().IsRegular(),
		}
		if s.include(entry) {
			s.result.Entries = append(s.result.Entries, entry)
		}

		// Symlinked directories are listed but not followed.
		if !entry.IsDir || linked || depth == 0 {
			continue
		}
		if !s.opts.Hidden && isHidden(entry.Name) {
			continue
		}

		children, err := afero.ReadDir(s.fs, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable directory")
			s.result.Warnings = append(s.result.Warnings, Warning{Path: path, Err: err})
			continue
		}
		next := depth - 1
		if depth < 0 {
			next = -1
		}
		s.level(path, children, next)
	}
}

func (s *scan) include(e Entry) bool {
	if s.mask != nil {
		ok, err := s.mask.MatchString(e.Name)
		if err != nil {
			log.Debug().Err(err).Str("name", e.Name).Msg("mask match failed")
			return false
		}
		if !ok {
			return false
		}
	}
	if len(s.opts.Extensions) > 0 && !hasAnySuffix(e.Name, s.opts.Extensions) {
		return false
	}
	if !(e.IsDir && s.opts.Folders) && !(e.IsFile && s.opts.Files) {
		return false
	}
	if !s.opts.Hidden && isHidden(e.Name) {
		return false
	}

	n := utf8.RuneCountInString(e.Name)
	if n < s.opts.MinLen {
		return false
	}
	return s.opts.MaxLen < 0 || n <= s.opts.MaxLen
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
