package undo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// JournalName is the file the log is persisted to inside the config dir.
const JournalName = "undo.yaml"

var ErrCorruptJournal = errors.New("undo journal checksum mismatch")

type journal struct {
	Pairs    []Pair `yaml:"pairs"`
	Checksum string `yaml:"checksum"`
}

func checksum(pairs []Pair) string {
	d := xxhash.New()
	for _, p := range pairs {
		_, _ = d.WriteString(p.Old)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(p.New)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// Save writes the log to path. An empty log removes the journal.
func Save(fs afero.Fs, path string, l *Log) error {
	if l.Len() == 0 {
		if err := fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove journal: %w", err)
		}
		return nil
	}

	pairs := l.Pairs()
	data, err := yaml.Marshal(journal{Pairs: pairs, Checksum: checksum(pairs)})
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

// Load reads the journal at path. A missing journal is an empty log.
func Load(fs afero.Fs, path string) (*Log, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Log{}, nil
		}
		return nil, fmt.Errorf("read journal: %w", err)
	}

	var j journal
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("decode journal: %w", err)
	}
	if checksum(j.Pairs) != j.Checksum {
		return nil, fmt.Errorf("%w: %s", ErrCorruptJournal, path)
	}

	l := &Log{}
	l.Reset(j.Pairs)
	return l, nil
}
