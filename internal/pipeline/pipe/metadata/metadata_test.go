package metadata

import (
	"errors"
	"reflect"
	"testing"

	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/internal/magic"
	"github.com/beatsaver/ingest/internal/testutil"
	"github.com/beatsaver/ingest/pkg/beatmap"
	"github.com/beatsaver/ingest/pkg/info"
)

func newContext(t *testing.T, manifest []byte) *context.Context {
	t.Helper()
	m, err := info.Parse(manifest)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	sets, err := m.DifficultyBeatmapSets()
	if err != nil {
		t.Fatalf("DifficultyBeatmapSets failed: %v", err)
	}
	ctx := context.New(nil)
	ctx.Manifest = m
	ctx.Difficulties = info.Flatten(sets)
	ctx.Hash = "a9993e364706816aba3e25717850c26c9cd0d89d"
	ctx.CoverKind = magic.JPEG
	return ctx
}

func TestRun(t *testing.T) {
	m := testutil.DefaultMap()
	m.Sets = append(m.Sets, testutil.Set{Characteristic: "Standard", Difficulties: []testutil.Difficulty{{Filename: "Lawless.dat", Rank: 4}}})
	ctx := newContext(t, m.Manifest())

	if err := (Pipe{}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := beatmap.ParsedBeatmap{
		Hash: ctx.Hash,
		Metadata: beatmap.Metadata{
			SongName:        m.SongName,
			SongSubName:     m.SongSubName,
			SongAuthorName:  m.SongAuthorName,
			LevelAuthorName: m.LevelAuthorName,
			BPM:             m.BPM,
			Difficulties:    beatmap.Difficulties{Easy: true, Expert: true, ExpertPlus: true},
			Characteristics: []string{"Standard", "OneSaber", "Standard"},
		},
		CoverExt: ".jpg",
	}
	if !reflect.DeepEqual(*ctx.Parsed, want) {
		t.Errorf("unexpected metadata:\n got %+v\nwant %+v", *ctx.Parsed, want)
	}
}

func TestEmptySets(t *testing.T) {
	m := testutil.DefaultMap()
	m.Sets = nil
	ctx := newContext(t, m.Manifest())
	if err := (Pipe{}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if ctx.Parsed.Metadata.Characteristics == nil || len(ctx.Parsed.Metadata.Characteristics) != 0 {
		t.Errorf("expected an empty characteristics list, got %#v", ctx.Parsed.Metadata.Characteristics)
	}
	if ctx.Parsed.Metadata.Difficulties != (beatmap.Difficulties{}) {
		t.Errorf("expected no tiers, got %+v", ctx.Parsed.Metadata.Difficulties)
	}
}

func TestInvalidFields(t *testing.T) {
	base := `"_songAuthorName":"a","_levelAuthorName":"b","_beatsPerMinute":120,"_difficultyBeatmapSets":[]`
	tests := []struct {
		name     string
		manifest string
	}{
		{"song name missing", `{` + base + `}`},
		{"song name number", `{"_songName":1,` + base + `}`},
		{"sub name object", `{"_songName":"x","_songSubName":{},` + base + `}`},
		{"bpm zero", `{"_songName":"x","_songAuthorName":"a","_levelAuthorName":"b","_beatsPerMinute":0,"_difficultyBeatmapSets":[]}`},
		{"level author missing", `{"_songName":"x","_songAuthorName":"a","_beatsPerMinute":120,"_difficultyBeatmapSets":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(t, []byte(tt.manifest))
			err := Pipe{}.Run(ctx)
			if !errors.Is(err, beatmap.ErrManifestInvalid) {
				t.Fatalf("expected ManifestInvalid, got %v", err)
			}
			if ctx.Parsed != nil {
				t.Error("no metadata should be produced")
			}
		})
	}
}
