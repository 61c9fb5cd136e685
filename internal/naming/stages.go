package naming

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StageContext is what a stage sees besides the name it transforms.
type StageContext struct {
	Config *Config
	Index  int
	Path   string

	pipeline *Pipeline
}

// Stage is one named transform of the stem.
type Stage struct {
	Name  string
	Apply func(name string, ctx *StageContext) string
}

// Stages is the fixed execution order of the stem transforms. Reordering
// changes the produced names.
var Stages = []Stage{
	{Name: "from_file", Apply: fromFileStage},
	{Name: "regex", Apply: regexStage},
	{Name: "name", Apply: nameStage},
	{Name: "replace", Apply: replaceStage},
	{Name: "case", Apply: caseStage},
	{Name: "remove", Apply: removeStage},
	{Name: "move", Apply: moveStage},
	{Name: "add", Apply: addStage},
	{Name: "folder", Apply: folderStage},
	{Name: "numbering", Apply: numberingStage},
}

func fromFileStage(name string, ctx *StageContext) string {
	cfg := ctx.Config.FromFile
	if cfg.Path == "" || ctx.pipeline == nil {
		return name
	}

	lines := ctx.pipeline.fileLines(cfg.Path)
	if len(lines) == 0 {
		return name
	}

	idx := ctx.Index
	if cfg.Wrap {
		idx %= len(lines)
	}
	if idx < 0 || idx >= len(lines) {
		return name
	}
	return lines[idx]
}

func regexStage(name string, ctx *StageContext) string {
	cfg := ctx.Config.Regex
	if cfg.Pattern == "" || cfg.Replacement == "" {
		return name
	}

	re := ctx.pipeline.anchored(cfg.Pattern)
	if re == nil {
		return name
	}

	m, err := re.FindStringMatch(name)
	if err != nil {
		log.Debug().Err(err).Str("pattern", cfg.Pattern).Msg("regex match failed")
		return name
	}
	if m == nil {
		return name
	}

	groups := make([]string, 0, m.GroupCount())
	for _, g := range m.Groups() {
		groups = append(groups, g.String())
	}
	return expandGroups(cfg.Replacement, groups)
}

func nameStage(name string, ctx *StageContext) string {
	cfg := ctx.Config.Name
	switch cfg.Mode {
	case NameRemove:
		return ""
	case NameReverse:
		r := []rune(name)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return string(r)
	case NameFixed:
		return cfg.Fixed
	default:
		return name
	}
}

func replaceStage(name string, ctx *StageContext) string {
	cfg := ctx.Config.Replace
	if cfg.Search == "" {
		return name
	}
	if cfg.CaseSensitive {
		return strings.ReplaceAll(name, cfg.Search, cfg.With)
	}
	// Matches are non-overlapping and scanning resumes after each
	// replacement, so a replacement containing the search text terminates.
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(cfg.Search))
	return re.ReplaceAllLiteralString(name, cfg.With)
}

func caseStage(name string, ctx *StageContext) string {
	switch ctx.Config.Case.Mode {
	case CaseUpper:
		return strings.ToUpper(name)
	case CaseLower:
		return strings.ToLower(name)
	case CaseTitle:
		return cases.Title(language.Und).String(name)
	case CaseSentence:
		return sentenceCase(name)
	default:
		return name
	}
}

func sentenceCase(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToTitle(r[0])
	return string(r)
}

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func removeStage(name string, ctx *StageContext) string {
	cfg := ctx.Config.Remove

	r := []rune(name)
	if n := cfg.FirstN; n > 0 {
		r = r[min(n, len(r)):]
	}
	if n := cfg.LastN; n > 0 {
		r = r[:len(r)-min(n, len(r))]
	}
	if cfg.From > 0 && cfg.To >= cfg.From {
		from := min(cfg.From-1, len(r))
		to := min(cfg.To, len(r))
		r = append(r[:from:from], r[to:]...)
	}
	name = string(r)

	if cfg.Word != "" {
		words := strings.Split(name, " ")
		kept := words[:0]
		for _, w := range words {
			if w != cfg.Word {
				kept = append(kept, w)
			}
		}
		name = strings.Join(kept, " ")
	}
	if cfg.Chars != "" {
		name = dropRunes(name, func(c rune) bool { return strings.ContainsRune(cfg.Chars, c) })
	}

	if cfg.CropText != "" {
		switch cfg.CropMode {
		case CropBefore:
			if idx := strings.Index(name, cfg.CropText); idx >= 0 {
				name = name[idx+len(cfg.CropText):]
			}
		case CropAfter:
			if idx := strings.Index(name, cfg.CropText); idx >= 0 {
				name = name[:idx]
			}
		case CropSpecial:
			if re := ctx.pipeline.pattern(wildcardPattern(cfg.CropText)); re != nil {
				if out, err := re.Replace(name, "", -1, -1); err == nil {
					name = out
				}
			}
		}
	}

	if cfg.Digits {
		name = dropRunes(name, unicode.IsDigit)
	}
	if cfg.DoubleSpaces {
		for strings.Contains(name, "  ") {
			name = strings.ReplaceAll(name, "  ", " ")
		}
	}
	if cfg.Accents {
		name = stripAccents(name)
	}
	if cfg.Letters {
		name = dropRunes(name, func(c rune) bool { return c < unicode.MaxASCII && unicode.IsLetter(c) })
	}
	if cfg.Punctuation {
		name = dropRunes(name, func(c rune) bool { return strings.ContainsRune(asciiPunctuation, c) })
	}

	if cfg.LeadingDots {
		if strings.HasPrefix(name, "..") {
			name = name[2:]
		} else if strings.HasPrefix(name, ".") {
			name = name[1:]
		}
	}
	return name
}

func dropRunes(s string, drop func(rune) bool) string {
	return strings.Map(func(c rune) rune {
		if drop(c) {
			return -1
		}
		return c
	}, s)
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func moveStage(name string, ctx *StageContext) string {
	cfg := ctx.Config.Move
	r := []rune(name)
	if cfg.Count <= 0 || len(r) == 0 {
		return name
	}
	n := min(cfg.Count, len(r))

	var chunk, rest []rune
	switch cfg.From {
	case AnchorStart:
		chunk, rest = r[:n], r[n:]
	case AnchorEnd:
		chunk, rest = r[len(r)-n:], r[:len(r)-n]
	default:
		return name
	}
	if cfg.Copy {
		rest = r
	}

	switch {
	case cfg.From == AnchorStart && cfg.To == AnchorEnd:
		return splice(rest, len(rest), string(chunk), cfg.Separator)
	case cfg.From == AnchorEnd && cfg.To == AnchorStart:
		return splice(rest, 0, string(chunk), cfg.Separator)
	case cfg.To == AnchorPosition:
		return splice(rest, clamp(cfg.Position, 0, len(rest)), string(chunk), cfg.Separator)
	default:
		return name
	}
}

func addStage(name string, ctx *StageContext) string {
	cfg := ctx.Config.Add

	name = cfg.Prefix + name
	if cfg.Insert != "" {
		r := []rune(name)
		name = insertAt(r, ResolvePosition(cfg.Position, len(r)), cfg.Insert)
	}
	name += cfg.Suffix

	if cfg.WordSpace {
		name = spaceWords(name)
	}
	return name
}

// spaceWords puts a space before every upper-case letter that does not
// start the string or already follow a space.
func spaceWords(s string) string {
	var b strings.Builder
	prev := ' '
	for i, c := range s {
		if i > 0 && unicode.IsUpper(c) && prev != ' ' {
			b.WriteRune(' ')
		}
		b.WriteRune(c)
		prev = c
	}
	return b.String()
}

func folderStage(name string, ctx *StageContext) string {
	cfg := ctx.Config.Folder
	if cfg.Levels <= 0 || ctx.Path == "" {
		return name
	}

	segments := folderNames(ctx.Path, cfg.Levels)
	if len(segments) == 0 {
		return name
	}
	joined := strings.Join(segments, cfg.Separator) + cfg.Separator

	switch cfg.Mode {
	case FolderSuffix:
		return name + cfg.Separator + strings.TrimSuffix(joined, cfg.Separator)
	case FolderPosition:
		r := []rune(name)
		return insertAt(r, ResolvePosition(cfg.Position, len(r)), joined)
	default:
		return joined + name
	}
}

// folderNames returns up to levels ancestor directory names of path,
// innermost first. Walking stops at the filesystem root.
func folderNames(path string, levels int) []string {
	var names []string
	dir := filepath.Dir(filepath.Clean(path))
	for i := 0; i < levels; i++ {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		base := filepath.Base(dir)
		if base == "." || base == string(filepath.Separator) {
			break
		}
		names = append(names, base)
		dir = parent
	}
	return names
}

func numberingStage(name string, ctx *StageContext) string {
	cfg := ctx.Config.Numbering
	if cfg.Mode == NumberingNone || cfg.Mode == "" {
		return name
	}

	n := cfg.Start + ctx.Index*cfg.Increment
	num := FormatNumber(n, cfg.Base, cfg.Pad)

	switch cfg.Mode {
	case NumberingPrefix:
		return num + cfg.Separator + name
	case NumberingSuffix:
		return name + cfg.Separator + num
	case NumberingBoth:
		return num + cfg.Separator + name + cfg.Separator + num
	case NumberingPosition:
		r := []rune(name)
		return splice(r, ResolvePosition(cfg.Position, len(r)), num, cfg.Separator)
	default:
		return name
	}
}

// extensionStage rewrites the extension, which carries its leading dot.
func extensionStage(ext string, cfg ExtensionConfig) string {
	value := strings.TrimPrefix(cfg.Value, ".")
	switch cfg.Mode {
	case ExtLower:
		return strings.ToLower(ext)
	case ExtUpper:
		return strings.ToUpper(ext)
	case ExtTitle:
		return cases.Title(language.Und).String(ext)
	case ExtExtra:
		if value == "" {
			return ext
		}
		return ext + "." + value
	case ExtFixed:
		if value == "" {
			return ""
		}
		return "." + value
	case ExtRemove:
		return ""
	default:
		return ext
	}
}
