package naming

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidSetting = errors.New("invalid setting")
)

type NameMode string

const (
	NameKeep    NameMode = "Keep"
	NameRemove  NameMode = "Remove"
	NameReverse NameMode = "Reverse"
	NameFixed   NameMode = "Fixed"
)

type CaseMode string

const (
	CaseSame     CaseMode = "Same"
	CaseUpper    CaseMode = "Upper Case"
	CaseLower    CaseMode = "Lower Case"
	CaseTitle    CaseMode = "Title"
	CaseSentence CaseMode = "Sentence"
)

type CropMode string

const (
	CropNone    CropMode = "None"
	CropBefore  CropMode = "Before"
	CropAfter   CropMode = "After"
	CropSpecial CropMode = "Special"
)

type Anchor string

const (
	AnchorStart    Anchor = "Start"
	AnchorEnd      Anchor = "End"
	AnchorPosition Anchor = "Position"
)

type FolderMode string

const (
	FolderPrefix   FolderMode = "Prefix"
	FolderSuffix   FolderMode = "Suffix"
	FolderPosition FolderMode = "Position"
)

type NumberingMode string

const (
	NumberingNone     NumberingMode = "None"
	NumberingPrefix   NumberingMode = "Prefix"
	NumberingSuffix   NumberingMode = "Suffix"
	NumberingBoth     NumberingMode = "Both"
	NumberingPosition NumberingMode = "Position"
)

type NumberBase string

const (
	Base10       NumberBase = "Base 10"
	Base2        NumberBase = "Base 2"
	Base8        NumberBase = "Base 8"
	Base16       NumberBase = "Base 16"
	LowerLetters NumberBase = "Lower Case Letters"
	UpperLetters NumberBase = "Upper Case Letters"
)

type ExtensionMode string

const (
	ExtSame   ExtensionMode = "Same"
	ExtLower  ExtensionMode = "Lower"
	ExtUpper  ExtensionMode = "Upper"
	ExtTitle  ExtensionMode = "Title"
	ExtExtra  ExtensionMode = "Extra"
	ExtFixed  ExtensionMode = "Fixed"
	ExtRemove ExtensionMode = "Remove"
)

type FromFileConfig struct {
	Path string `mapstructure:"from_file_path"`
	Wrap bool   `mapstructure:"from_file_wrap"`
}

type RegexConfig struct {
	Pattern     string `mapstructure:"regex_pattern"`
	Replacement string `mapstructure:"regex_replacement"`
}

type NameConfig struct {
	Mode  NameMode `mapstructure:"name_mode"`
	Fixed string   `mapstructure:"name_fixed"`
}

type ReplaceConfig struct {
	Search        string `mapstructure:"replace_search"`
	With          string `mapstructure:"replace_with"`
	CaseSensitive bool   `mapstructure:"replace_case_sensitive"`
}

type CaseConfig struct {
	Mode CaseMode `mapstructure:"case_mode"`
}

type RemoveConfig struct {
	FirstN       int      `mapstructure:"remove_first_n"`
	LastN        int      `mapstructure:"remove_last_n"`
	From         int      `mapstructure:"remove_from"`
	To           int      `mapstructure:"remove_to"`
	Word         string   `mapstructure:"remove_word"`
	Chars        string   `mapstructure:"remove_chars"`
	CropMode     CropMode `mapstructure:"remove_crop_mode"`
	CropText     string   `mapstructure:"remove_crop_text"`
	Digits       bool     `mapstructure:"remove_digits"`
	DoubleSpaces bool     `mapstructure:"remove_double_spaces"`
	Accents      bool     `mapstructure:"remove_accents"`
	Letters      bool     `mapstructure:"remove_letters"`
	Punctuation  bool     `mapstructure:"remove_punctuation"`
	LeadingDots  bool     `mapstructure:"remove_leading_dots"`
}

type MoveConfig struct {
	From      Anchor `mapstructure:"move_from"`
	To        Anchor `mapstructure:"move_to"`
	Count     int    `mapstructure:"move_count"`
	Position  int    `mapstructure:"move_position"`
	Separator string `mapstructure:"move_separator"`
	Copy      bool   `mapstructure:"move_copy"`
}

type AddConfig struct {
	Prefix    string `mapstructure:"add_prefix"`
	Insert    string `mapstructure:"add_insert"`
	Position  int    `mapstructure:"add_at_position"`
	Suffix    string `mapstructure:"add_suffix"`
	WordSpace bool   `mapstructure:"add_word_space"`
}

type FolderConfig struct {
	Levels    int        `mapstructure:"folder_levels"`
	Separator string     `mapstructure:"folder_separator"`
	Mode      FolderMode `mapstructure:"folder_mode"`
	Position  int        `mapstructure:"folder_position"`
}

type NumberingConfig struct {
	Mode      NumberingMode `mapstructure:"numbering_mode"`
	Start     int           `mapstructure:"numbering_start"`
	Increment int           `mapstructure:"numbering_increment"`
	Pad       int           `mapstructure:"numbering_pad"`
	Separator string        `mapstructure:"numbering_separator"`
	Base      NumberBase    `mapstructure:"numbering_base"`
	Position  int           `mapstructure:"numbering_position"`
}

type ExtensionConfig struct {
	Mode  ExtensionMode `mapstructure:"extension_mode"`
	Value string        `mapstructure:"extension_value"`
}

// Config drives every stage of one rename invocation. Build it with
// ConfigFromSettings so every field carries an explicit default.
type Config struct {
	FromFile  FromFileConfig  `mapstructure:",squash"`
	Regex     RegexConfig     `mapstructure:",squash"`
	Name      NameConfig      `mapstructure:",squash"`
	Replace   ReplaceConfig   `mapstructure:",squash"`
	Case      CaseConfig      `mapstructure:",squash"`
	Remove    RemoveConfig    `mapstructure:",squash"`
	Move      MoveConfig      `mapstructure:",squash"`
	Add       AddConfig       `mapstructure:",squash"`
	Folder    FolderConfig    `mapstructure:",squash"`
	Numbering NumberingConfig `mapstructure:",squash"`
	Extension ExtensionConfig `mapstructure:",squash"`
}

// DefaultSettings returns the flat settings mapping with every key at its
// no-op default.
func DefaultSettings() map[string]any {
	return map[string]any{
		"from_file_path": "",
		"from_file_wrap": false,

		"regex_pattern":     "",
		"regex_replacement": "",

		"name_mode":  string(NameKeep),
		"name_fixed": "",

		"replace_search":         "",
		"replace_with":           "",
		"replace_case_sensitive": true,

		"case_mode": string(CaseSame),

		"remove_first_n":       0,
		"remove_last_n":        0,
		"remove_from":          0,
		"remove_to":            0,
		"remove_word":          "",
		"remove_chars":         "",
		"remove_crop_mode":     string(CropNone),
		"remove_crop_text":     "",
		"remove_digits":        false,
		"remove_double_spaces": false,
		"remove_accents":       false,
		"remove_letters":       false,
		"remove_punctuation":   false,
		"remove_leading_dots":  false,

		"move_from":      string(AnchorStart),
		"move_to":        string(AnchorEnd),
		"move_count":     0,
		"move_position":  0,
		"move_separator": "",
		"move_copy":      false,

		"add_prefix":      "",
		"add_insert":      "",
		"add_at_position": 0,
		"add_suffix":      "",
		"add_word_space":  false,

		"folder_levels":    0,
		"folder_separator": "-",
		"folder_mode":      string(FolderPrefix),
		"folder_position":  0,

		"numbering_mode":      string(NumberingNone),
		"numbering_start":     1,
		"numbering_increment": 1,
		"numbering_pad":       1,
		"numbering_separator": "",
		"numbering_base":      string(Base10),
		"numbering_position":  0,

		"extension_mode":  string(ExtSame),
		"extension_value": "",
	}
}

// SettingKeys lists every known settings key in sorted order.
func SettingKeys() []string {
	defaults := DefaultSettings()
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NormalizeKey maps a flag-style name ("numbering-pad") to its settings key.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", "_"))
}

// DefaultConfig returns the configuration under which the pipeline leaves
// every name unchanged.
func DefaultConfig() Config {
	cfg, err := ConfigFromSettings()
	if err != nil {
		panic(fmt.Sprintf("naming: default settings do not decode: %v", err))
	}
	return cfg
}

// ConfigFromSettings layers the given settings mappings over the defaults,
// later layers winning, and decodes the result. Unknown keys and invalid
// values are rejected.
func ConfigFromSettings(layers ...map[string]any) (Config, error) {
	defaults := DefaultSettings()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	for _, layer := range layers {
		for k, val := range layer {
			key := NormalizeKey(k)
			if _, ok := defaults[key]; !ok {
				return Config{}, fmt.Errorf("%w: %q", ErrUnknownSetting, k)
			}
			v.Set(key, val)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enum values, counts and user patterns.
func (c Config) Validate() error {
	var errs []error
	bad := func(key string, value any) {
		errs = append(errs, fmt.Errorf("%w: %s=%v", ErrInvalidSetting, key, value))
	}

	if !oneOf(c.Name.Mode, NameKeep, NameRemove, NameReverse, NameFixed) {
		bad("name_mode", c.Name.Mode)
	}
	if !oneOf(c.Case.Mode, CaseSame, CaseUpper, CaseLower, CaseTitle, CaseSentence) {
		bad("case_mode", c.Case.Mode)
	}
	if !oneOf(c.Remove.CropMode, CropNone, CropBefore, CropAfter, CropSpecial) {
		bad("remove_crop_mode", c.Remove.CropMode)
	}
	if !oneOf(c.Move.From, AnchorStart, AnchorEnd) {
		bad("move_from", c.Move.From)
	}
	if !oneOf(c.Move.To, AnchorStart, AnchorEnd, AnchorPosition) {
		bad("move_to", c.Move.To)
	}
	if !oneOf(c.Folder.Mode, FolderPrefix, FolderSuffix, FolderPosition) {
		bad("folder_mode", c.Folder.Mode)
	}
	if !oneOf(c.Numbering.Mode, NumberingNone, NumberingPrefix, NumberingSuffix, NumberingBoth, NumberingPosition) {
		bad("numbering_mode", c.Numbering.Mode)
	}
	if !oneOf(c.Numbering.Base, Base10, Base2, Base8, Base16, LowerLetters, UpperLetters) {
		bad("numbering_base", c.Numbering.Base)
	}
	if !oneOf(c.Extension.Mode, ExtSame, ExtLower, ExtUpper, ExtTitle, ExtExtra, ExtFixed, ExtRemove) {
		bad("extension_mode", c.Extension.Mode)
	}

	for key, n := range map[string]int{
		"remove_first_n": c.Remove.FirstN,
		"remove_last_n":  c.Remove.LastN,
		"remove_from":    c.Remove.From,
		"remove_to":      c.Remove.To,
		"move_count":     c.Move.Count,
		"folder_levels":  c.Folder.Levels,
		"numbering_pad":  c.Numbering.Pad,
	} {
		if n < 0 {
			bad(key, n)
		}
	}
	if c.Remove.From > 0 && c.Remove.To > 0 && c.Remove.To < c.Remove.From {
		bad("remove_to", c.Remove.To)
	}

	if c.Regex.Pattern != "" {
		if _, err := compileAnchored(c.Regex.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("%w: regex_pattern: %v", ErrInvalidSetting, err))
		}
	}
	if c.Remove.CropMode == CropSpecial && c.Remove.CropText != "" {
		if _, err := compilePattern(wildcardPattern(c.Remove.CropText)); err != nil {
			errs = append(errs, fmt.Errorf("%w: remove_crop_text: %v", ErrInvalidSetting, err))
		}
	}

	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errors.Join(errs...)
}

func oneOf[T comparable](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
