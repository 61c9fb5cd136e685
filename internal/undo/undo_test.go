package undo

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestLog(t *testing.T) {
	var l Log
	l.Append("/a", "/b")
	l.Append("/c", "/d")

	pairs := l.Pairs()
	if len(pairs) != 2 || pairs[0] != (Pair{Old: "/a", New: "/b"}) || pairs[1] != (Pair{Old: "/c", New: "/d"}) {
		t.Fatalf("pairs = %#v", pairs)
	}

	pairs[0].Old = "/changed"
	if l.Pairs()[0].Old != "/a" {
		t.Fatalf("Pairs should return a copy")
	}

	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("Len after Clear = %d", l.Len())
	}
}

func TestJournalRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path := "/config/morph/" + JournalName

	var l Log
	l.Append("/photos/a.jpg", "/photos/b.jpg")
	l.Append("/photos/c.jpg", "/photos/d.jpg")
	if err := Save(fsys, path, &l); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(fsys, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 2 || loaded.Pairs()[1].New != "/photos/d.jpg" {
		t.Fatalf("loaded = %#v", loaded.Pairs())
	}

	loaded.Clear()
	if err := Save(fsys, path, loaded); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if ok, _ := afero.Exists(fsys, path); ok {
		t.Fatalf("empty log should remove the journal")
	}
}

func TestLoadMissingJournal(t *testing.T) {
	l, err := Load(afero.NewMemMapFs(), "/nowhere/"+JournalName)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty log")
	}
}

func TestLoadRejectsTamperedJournal(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path := "/cfg/" + JournalName

	var l Log
	l.Append("/x/a", "/x/b")
	if err := Save(fsys, path, &l); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tampered := strings.Replace(string(data), "/x/b", "/etc/passwd", 1)
	if err := afero.WriteFile(fsys, path, []byte(tampered), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(fsys, path); !errors.Is(err, ErrCorruptJournal) {
		t.Fatalf("expected ErrCorruptJournal, got %v", err)
	}
}
