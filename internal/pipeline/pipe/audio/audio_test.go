package audio

import (
	"bytes"
	"testing"

	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/internal/testutil"
	"github.com/beatsaver/ingest/pkg/container"
	"github.com/beatsaver/ingest/pkg/info"
)

func TestNeedsRename(t *testing.T) {
	tests := []struct {
		name string
		want bool
		egg  string
	}{
		{"song.ogg", true, "song.egg"},
		{"audio/song.ogg", true, "audio/song.egg"},
		{"song.final.ogg", true, "song.final.egg"},
		{"song..ogg", true, "song..egg"},
		{"song.wav", false, ""},
		{"song.egg", false, ""},
		{"SONG.OGG", false, ""},
		{"song.ogg.wav", false, ""},
		{".ogg", false, ""},
		{"audio/.ogg", false, ""},
		{"", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsRename(tt.name); got != tt.want {
				t.Fatalf("NeedsRename(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if tt.want {
				if got := EggName(tt.name); got != tt.egg {
					t.Errorf("EggName(%q) = %q, want %q", tt.name, got, tt.egg)
				}
			}
		})
	}
}

func newContext(t *testing.T, m testutil.Map, files []testutil.File) *context.Context {
	t.Helper()
	ctx := context.New(testutil.Zip(t, files...))
	c, err := container.Load(ctx.Raw, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	man, err := info.Parse(m.Manifest())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ctx.Container = c
	ctx.Manifest = man
	return ctx
}

func TestRun(t *testing.T) {
	m := testutil.DefaultMap()
	m.Song = "audio/song.ogg"
	ctx := newContext(t, m, m.Files(t))

	if (Pipe{}).Skip(ctx) {
		t.Fatal("an .ogg song must not be skipped")
	}
	if err := (Pipe{}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if ctx.Container.Has("audio/song.ogg") {
		t.Error("old audio member still present")
	}
	data, ok := ctx.Container.Get("audio/song.egg")
	if !ok || !bytes.Equal(data, testutil.OggVorbis()) {
		t.Error("renamed audio member must keep its bytes")
	}
	if got, _ := ctx.Manifest.SongFilename(); got != "audio/song.egg" {
		t.Errorf("manifest points at %s", got)
	}
	stored, _ := ctx.Container.Get(info.FileName)
	if !bytes.Equal(stored, ctx.Manifest.Bytes()) {
		t.Error("info.dat in the container must match the rewritten manifest")
	}
	if !bytes.HasSuffix(stored, []byte("}\n")) {
		t.Error("rewritten info.dat must end with a newline")
	}
	if name, _ := ctx.Manifest.SongName(); name != m.SongName {
		t.Errorf("other fields must survive, got song name %q", name)
	}
}

func TestSkip(t *testing.T) {
	for _, song := range []string{"song.wav", "song.OGG", "song.egg"} {
		m := testutil.DefaultMap()
		m.Song = song
		ctx := newContext(t, m, m.Files(t))
		if !(Pipe{}).Skip(ctx) {
			t.Errorf("%s should be skipped", song)
		}
	}
}
