package scanner

import (
	"errors"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func buildTree(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, dir := range []string{"/root/sub/deep/deeper", "/root/.hidden"} {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for _, file := range []string{
		"/root/a.txt",
		"/root/b.jpg",
		"/root/.dot",
		"/root/sub/c.txt",
		"/root/sub/deep/d.txt",
		"/root/sub/deep/deeper/e.txt",
		"/root/.hidden/f.txt",
	} {
		if err := afero.WriteFile(fsys, file, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}
	return fsys
}

func paths(res Result) []string {
	out := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		out = append(out, e.Path)
	}
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScanDepthZeroDoesNotRecurse(t *testing.T) {
	res, err := Scan(buildTree(t), "/root", DefaultOptions())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{"/root/a.txt", "/root/b.jpg", "/root/sub"}
	if got := paths(res); !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScanUnlimitedDepth(t *testing.T) {
	opts := DefaultOptions()
	opts.Depth = -1
	res, err := Scan(buildTree(t), "/root", opts)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	found := false
	for _, e := range res.Entries {
		if e.Path == "/root/sub/deep/deeper/e.txt" {
			found = e.IsFile && !e.IsDir
		}
		if e.Path == "/root/.hidden/f.txt" {
			t.Fatalf("hidden directory should not be descended")
		}
	}
	if !found {
		t.Fatalf("file three levels deep missing from %v", paths(res))
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
}

func TestScanLimitedDepth(t *testing.T) {
	opts := DefaultOptions()
	opts.Depth = 1
	res, err := Scan(buildTree(t), "/root", opts)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{"/root/a.txt", "/root/b.jpg", "/root/sub", "/root/sub/c.txt", "/root/sub/deep"}
	if got := paths(res); !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScanHiddenDirectoriesFollowHiddenToggle(t *testing.T) {
	opts := DefaultOptions()
	opts.Depth = -1
	opts.Hidden = true
	opts.Folders = false
	opts.Extensions = []string{".txt"}

	res, err := Scan(buildTree(t), "/root", opts)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{
		"/root/.hidden/f.txt",
		"/root/a.txt",
		"/root/sub/c.txt",
		"/root/sub/deep/d.txt",
		"/root/sub/deep/deeper/e.txt",
	}
	if got := paths(res); !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScanFilters(t *testing.T) {
	fsys := buildTree(t)
	cases := []struct {
		desc   string
		modify func(*Options)
		want   []string
	}{
		{"mask anchored at start", func(o *Options) { o.Mask = `[ab]\.` }, []string{"/root/a.txt", "/root/b.jpg"}},
		{"mask needs prefix match", func(o *Options) { o.Mask = `txt` }, []string{}},
		{"extensions", func(o *Options) { o.Extensions = []string{".jpg"} }, []string{"/root/b.jpg"}},
		{"extension case", func(o *Options) { o.Extensions = []string{".JPG"} }, []string{}},
		{"folders only", func(o *Options) { o.Files = false }, []string{"/root/sub"}},
		{"min length", func(o *Options) { o.MinLen = 5 }, []string{"/root/a.txt", "/root/b.jpg"}},
		{"max length", func(o *Options) { o.MaxLen = 3 }, []string{"/root/sub"}},
		{"hidden", func(o *Options) { o.Hidden = true }, []string{"/root/.dot", "/root/.hidden", "/root/a.txt", "/root/b.jpg", "/root/sub"}},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			opts := DefaultOptions()
			tc.modify(&opts)
			res, err := Scan(fsys, "/root", opts)
			if err != nil {
				t.Fatalf("scan: %v", err)
			}
			if got := paths(res); !equal(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

type failingFs struct {
	afero.Fs
	bad string
}

func (f failingFs) Open(name string) (afero.File, error) {
	if name == f.bad {
		return nil, os.ErrPermission
	}
	return f.Fs.Open(name)
}

func TestScanCollectsSubtreeWarnings(t *testing.T) {
	opts := DefaultOptions()
	opts.Depth = -1
	res, err := Scan(failingFs{Fs: buildTree(t), bad: "/root/sub/deep"}, "/root", opts)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Path != "/root/sub/deep" {
		t.Fatalf("warnings = %v", res.Warnings)
	}
	if !errors.Is(res.Warnings[0].Err, os.ErrPermission) {
		t.Fatalf("warning error = %v", res.Warnings[0].Err)
	}
	for _, e := range res.Entries {
		if e.Path == "/root/sub/deep/d.txt" {
			t.Fatalf("entries below the failed directory should be dropped")
		}
	}
}

func TestScanRootErrors(t *testing.T) {
	if _, err := Scan(buildTree(t), "/missing", DefaultOptions()); err == nil {
		t.Fatalf("expected error for missing root")
	}

	opts := DefaultOptions()
	opts.Mask = "("
	if _, err := Scan(buildTree(t), "/root", opts); !errors.Is(err, ErrInvalidMask) {
		t.Fatalf("expected ErrInvalidMask, got %v", err)
	}
}

func TestMaskMatchTimeout(t *testing.T) {
	re, err := compileMask(`(a+)+$`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if re.MatchTimeout != maskTimeout {
		t.Fatalf("MatchTimeout = %v, want %v", re.MatchTimeout, maskTimeout)
	}

	re.MatchTimeout = 20 * time.Millisecond
	s := &scan{opts: DefaultOptions(), mask: re}
	if !s.include(Entry{Name: "aaaa", IsFile: true}) {
		t.Fatalf("expected plain name to match")
	}
	if s.include(Entry{Name: strings.Repeat("a", 40) + "!", IsFile: true}) {
		t.Fatalf("expected timed out match to exclude the name")
	}
}

func TestSort(t *testing.T) {
	entries := []Entry{
		{Path: "/r/c.txt", Name: "c.txt", IsFile: true},
		{Path: "/r/a/z.txt", Name: "z.txt", IsFile: true},
		{Path: "/r/B.txt", Name: "B.txt", IsFile: true},
		{Path: "/r/a", Name: "a", IsDir: true},
	}
	cases := []struct {
		desc            string
		depth           int
		filesBeforeDirs bool
		reverse         bool
		entries         []Entry
		want            []string
	}{
		{"recursive", -1, false, false, entries, []string{"/r/a", "/r/a/z.txt", "/r/B.txt", "/r/c.txt"}},
		{"recursive reversed", -1, false, true, entries, []string{"/r/c.txt", "/r/B.txt", "/r/a/z.txt", "/r/a"}},
		{"flat files first", 0, true, false, entries[:1:1], []string{"/r/c.txt"}},
		{"flat files first mixed", 0, true, false, []Entry{entries[0], entries[2], entries[3]}, []string{"/r/B.txt", "/r/c.txt", "/r/a"}},
		{"flat dirs first", 0, false, false, []Entry{entries[0], entries[2], entries[3]}, []string{"/r/a", "/r/B.txt", "/r/c.txt"}},
		{"flat files first reversed", 0, true, true, []Entry{entries[0], entries[2], entries[3]}, []string{"/r/a", "/r/c.txt", "/r/B.txt"}},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			sorted := Sort(tc.entries, tc.depth, tc.filesBeforeDirs, tc.reverse)
			got := make([]string, len(sorted))
			for i, e := range sorted {
				got[i] = e.Path
			}
			if !equal(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
