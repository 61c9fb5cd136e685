package recipes

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// FileName is the command store inside the config dir.
const FileName = "commands.toml"

// NextStepKey names the command to run after this one.
const NextStepKey = "next_step"

var (
	ErrNotFound    = errors.New("recipe not found")
	ErrCycle       = errors.New("recipe chain loops")
	ErrInvalidName = errors.New("invalid recipe name")
)

// Recipe is one saved command: settings plus an optional follow-up.
type Recipe struct {
	Name     string
	Settings map[string]any
	Next     string
}

// Store reads and writes the command store. Each recipe is a TOML table
// whose keys are rename settings.
type Store struct {
	fs   afero.Fs
	path string
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

func (s *Store) Path() string {
	return s.path
}

// NormalizeName lower-cases name, as table names are matched
// case-insensitively.
func NormalizeName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, ".[]\"'") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

func (s *Store) read() (map[string]map[string]any, error) {
	sections := make(map[string]map[string]any)

	ok, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("stat command store: %w", err)
	}
	if !ok {
		return sections, nil
	}

	v := viper.New()
	v.SetFs(s.fs)
	v.SetConfigFile(s.path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read command store: %w", err)
	}

	for name, raw := range v.AllSettings() {
		table, ok := raw.(map[string]any)
		if !ok {
			log.Debug().Str("key", name).Msg("ignoring top-level key in command store")
			continue
		}
		sections[name] = table
	}
	return sections, nil
}

func (s *Store) write(sections map[string]map[string]any) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetFs(s.fs)
	v.SetConfigType("toml")
	for name, table := range sections {
		v.Set(name, table)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write command store: %w", err)
	}
	return nil
}

// List returns the saved recipe names in sorted order.
func (s *Store) List() ([]string, error) {
	sections, err := s.read()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Load(name string) (Recipe, error) {
	key, err := NormalizeName(name)
	if err != nil {
		return Recipe{}, err
	}
	sections, err := s.read()
	if err != nil {
		return Recipe{}, err
	}
	return lookup(sections, key)
}

func lookup(sections map[string]map[string]any, key string) (Recipe, error) {
	table, ok := sections[key]
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	r := Recipe{Name: key, Settings: make(map[string]any, len(table))}
	for k, v := range table {
		if k == NextStepKey {
			r.Next, _ = v.(string)
			continue
		}
		r.Settings[k] = v
	}
	return r, nil
}

// Save writes r, replacing any recipe of the same name.
func (s *Store) Save(r Recipe) error {
	key, err := NormalizeName(r.Name)
	if err != nil {
		return err
	}
	sections, err := s.read()
	if err != nil {
		return err
	}

	table := make(map[string]any, len(r.Settings)+1)
	for k, v := range r.Settings {
		table[k] = v
	}
	if r.Next != "" {
		next, err := NormalizeName(r.Next)
		if err != nil {
			return err
		}
		table[NextStepKey] = next
	}
	sections[key] = table

	log.Debug().Str("recipe", key).Int("settings", len(r.Settings)).Msg("saving recipe")
	return s.write(sections)
}

func (s *Store) Delete(name string) error {
	key, err := NormalizeName(name)
	if err != nil {
		return err
	}
	sections, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := sections[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(sections, key)
	return s.write(sections)
}

// Chain loads name and every recipe reached through next_step, in run
// order.
func (s *Store) Chain(name string) ([]Recipe, error) {
	key, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	sections, err := s.read()
	if err != nil {
		return nil, err
	}

	var chain []Recipe
	seen := make(map[string]bool)
	for key != "" {
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrCycle, key)
		}
		seen[key] = true

		r, err := lookup(sections, key)
		if err != nil {
			return nil, err
		}
		chain = append(chain, r)
		key = strings.ToLower(r.Next)
	}
	return chain, nil
}
