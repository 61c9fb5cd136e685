package naming

import (
	"bufio"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"morph/internal/metadata"
)

// TagReader loads the tag dictionary of a file.
type TagReader interface {
	ReadTags(path string) (metadata.Tags, error)
}

// Pipeline computes new names. It caches from-file contents and compiled
// patterns between calls and is not safe for concurrent use.
type Pipeline struct {
	fs   afero.Fs
	tags TagReader

	lines    map[string][]string
	patterns map[string]*regexp2.Regexp
}

// NewPipeline returns a pipeline reading from fs. tags may be nil, in which
// case {tag} tokens are never substituted.
func NewPipeline(fs afero.Fs, tags TagReader) *Pipeline {
	return &Pipeline{
		fs:       fs,
		tags:     tags,
		lines:    make(map[string][]string),
		patterns: make(map[string]*regexp2.Regexp),
	}
}

// NewName computes the new name of the item oldName located at path, which
// is the index-th item of the selection.
func (p *Pipeline) NewName(oldName string, index int, path string, cfg Config) string {
	isFile := p.isFile(path)

	stem, ext := oldName, ""
	if isFile {
		stem, ext = SplitExt(oldName)
	}

	ctx := &StageContext{Config: &cfg, Index: index, Path: path, pipeline: p}
	for _, stage := range Stages {
		stem = stage.Apply(stem, ctx)
	}
	ext = extensionStage(ext, cfg.Extension)

	name := stem + ext
	if isFile && p.tags != nil && HasTokens(name) {
		tags, err := p.tags.ReadTags(path)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("no tags for interpolation")
		} else {
			name = Interpolate(name, tags)
		}
	}
	return strings.TrimSpace(name)
}

// Chain runs NewName once per configuration, feeding each result into the
// next step. Every step sees the item's original path.
func (p *Pipeline) Chain(oldName string, index int, path string, cfgs []Config) string {
	name := oldName
	for _, cfg := range cfgs {
		name = p.NewName(name, index, path, cfg)
	}
	return name
}

func (p *Pipeline) isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := p.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (p *Pipeline) fileLines(path string) []string {
	if lines, ok := p.lines[path]; ok {
		return lines
	}

	var lines []string
	f, err := p.fs.Open(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("from-file unavailable")
		p.lines[path] = nil
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("from-file read failed")
		lines = nil
	}
	p.lines[path] = lines
	return lines
}

func (p *Pipeline) pattern(expr string) *regexp2.Regexp {
	if re, ok := p.patterns[expr]; ok {
		return re
	}
	re, err := compilePattern(expr)
	if err != nil {
		log.Debug().Err(err).Str("pattern", expr).Msg("pattern rejected")
		re = nil
	}
	p.patterns[expr] = re
	return re
}

func (p *Pipeline) anchored(expr string) *regexp2.Regexp {
	return p.pattern(`\A(?:` + expr + `)`)
}
