package renamer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"morph/internal/undo"
)

// Renamer performs renames on fs and records successes in its undo log.
type Renamer struct {
	fs  afero.Fs
	log *undo.Log
}

func New(fs afero.Fs, l *undo.Log) *Renamer {
	if l == nil {
		l = &undo.Log{}
	}
	return &Renamer{fs: fs, log: l}
}

func (r *Renamer) Log() *undo.Log {
	return r.log
}

// Rename moves oldPath to newPath. It never overwrites: an existing
// newPath fails with ErrPathExists and leaves both paths untouched.
func (r *Renamer) Rename(oldPath, newPath string) error {
	if oldPath == newPath {
		return nil
	}
	if strings.ContainsRune(newPath, 0) {
		return &Error{Kind: ErrInvalidCharacters, Old: oldPath, New: newPath}
	}
	if _, err := r.fs.Stat(newPath); err == nil {
		return &Error{Kind: ErrPathExists, Old: oldPath, New: newPath}
	}

	if err := r.fs.Rename(oldPath, newPath); err != nil {
		return &Error{Kind: classify(err), Old: oldPath, New: newPath, Err: err}
	}
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, os.ErrExist):
		return ErrPathExists
	case errors.Is(err, syscall.EINVAL), errors.Is(err, syscall.ENAMETOOLONG):
		return ErrInvalidCharacters
	default:
		return nil
	}
}

// ValidName rejects new base names that would leave the item's directory
// or that the OS cannot store.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidCharacters
	}
	if strings.ContainsRune(name, 0) || strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return ErrInvalidCharacters
	}
	return nil
}

// Run executes items in order. The undo log is cleared first and receives
// every successful rename. A failed item is reported and the batch moves
// on.
func (r *Renamer) Run(ctx context.Context, items []Item, updates chan<- ProgressUpdate) Report {
	r.log.Clear()

	report := Report{Total: len(items)}
	send(updates, ProgressUpdate{TotalDelta: len(items)})

	for _, item := range items {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				report.Err = err
				break
			}
		}

		if item.Unchanged() {
			report.Skipped++
			send(updates, ProgressUpdate{SkippedDelta: 1})
			continue
		}

		err := ValidName(item.NewName)
		if err != nil {
			err = &Error{Kind: err, Old: item.Old, New: item.New}
		} else {
			err = r.Rename(item.Old, item.New)
		}
		if err != nil {
			log.Warn().Err(err).Str("path", item.Old).Msg("rename failed")
			report.Errors = append(report.Errors, err)
			send(updates, ProgressUpdate{ErrorDelta: 1})
			continue
		}

		log.Debug().Str("old", item.Old).Str("new", item.New).Msg("renamed")
		r.log.Append(item.Old, item.New)
		report.Renamed++
		send(updates, ProgressUpdate{RenamedDelta: 1})
	}
	return report
}

// Undo reverts the last batch, newest rename first. Pairs that fail to
// revert stay in the log.
func (r *Renamer) Undo(updates chan<- ProgressUpdate) (Report, error) {
	pairs := r.log.Pairs()
	if len(pairs) == 0 {
		return Report{}, ErrNothingToUndo
	}

	report := Report{Total: len(pairs)}
	send(updates, ProgressUpdate{TotalDelta: len(pairs)})

	failed := make([]bool, len(pairs))
	for i := len(pairs) - 1; i >= 0; i-- {
		p := pairs[i]
		if err := r.Rename(p.New, p.Old); err != nil {
			log.Warn().Err(err).Str("path", p.New).Msg("undo failed")
			failed[i] = true
			report.Errors = append(report.Errors, err)
			send(updates, ProgressUpdate{ErrorDelta: 1})
			continue
		}
		report.Renamed++
		send(updates, ProgressUpdate{RenamedDelta: 1})
	}

	var remaining []undo.Pair
	for i, p := range pairs {
		if failed[i] {
			remaining = append(remaining, p)
		}
	}
	r.log.Reset(remaining)
	return report, nil
}

func send(updates chan<- ProgressUpdate, u ProgressUpdate) {
	if updates != nil {
		updates <- u
	}
}
