package media

import (
	"errors"
	"testing"

	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/internal/magic"
	"github.com/beatsaver/ingest/internal/testutil"
	"github.com/beatsaver/ingest/pkg/beatmap"
	"github.com/beatsaver/ingest/pkg/container"
	"github.com/beatsaver/ingest/pkg/info"
)

func newContext(t *testing.T, files []testutil.File) *context.Context {
	t.Helper()
	ctx := context.New(testutil.Zip(t, files...))
	c, err := container.Load(ctx.Raw, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	data, _ := c.Get(info.FileName)
	m, err := info.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ctx.Container = c
	ctx.Manifest = m
	return ctx
}

func TestCover(t *testing.T) {
	m := testutil.DefaultMap()

	tests := []struct {
		name     string
		cover    []byte
		wantErr  *beatmap.UploadError
		wantKind magic.Kind
	}{
		{"png 256", testutil.PNG(t, 256, 256), nil, magic.PNG},
		{"png 512", testutil.PNG(t, 512, 512), nil, magic.PNG},
		{"jpeg in a .png name", testutil.JPEG(t, 256, 256), nil, magic.JPEG},
		{"too small", testutil.PNG(t, 128, 128), beatmap.ErrCoverTooSmall, magic.Unknown},
		{"one pixel short", testutil.PNG(t, 255, 255), beatmap.ErrCoverTooSmall, magic.Unknown},
		{"not square", testutil.PNG(t, 300, 200), beatmap.ErrCoverNotSquare, magic.Unknown},
		{"small and not square", testutil.JPEG(t, 100, 50), beatmap.ErrCoverNotSquare, magic.Unknown},
		{"gif", []byte("GIF89a\x00\x01\x00\x01"), beatmap.ErrCoverFormatInvalid, magic.Unknown},
		{"text", []byte("not an image"), beatmap.ErrCoverFormatInvalid, magic.Unknown},
		{"png signature only", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, beatmap.ErrCoverFormatInvalid, magic.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(t, testutil.Replace(m.Files(t), m.Cover, tt.cover))
			err := Pipe{}.Run(ctx)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if ctx.CoverKind != tt.wantKind {
					t.Errorf("expected cover kind %s, got %s", tt.wantKind, ctx.CoverKind)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr.Kind, err)
			}
		})
	}
}

func TestCoverMissing(t *testing.T) {
	m := testutil.DefaultMap()
	ctx := newContext(t, testutil.Without(m.Files(t), m.Cover))
	err := Pipe{}.Run(ctx)
	var uerr *beatmap.UploadError
	if !errors.As(err, &uerr) || uerr.Kind != beatmap.CoverMissing {
		t.Fatalf("expected CoverMissing, got %v", err)
	}
	if uerr.Filename != m.Cover {
		t.Errorf("expected filename %s, got %s", m.Cover, uerr.Filename)
	}
}

func TestAudio(t *testing.T) {
	m := testutil.DefaultMap()

	tests := []struct {
		name    string
		audio   []byte
		wantErr *beatmap.UploadError
	}{
		{"ogg vorbis", testutil.OggVorbis(), nil},
		{"wav", testutil.WAV(), nil},
		{"mp3", []byte("ID3\x04\x00\x00\x00\x00"), beatmap.ErrAudioFormatInvalid},
		{"flac", []byte("fLaC\x00\x00\x00\x22"), beatmap.ErrAudioFormatInvalid},
		{"ogg without vorbis", []byte("OggS\x00\x02\x00\x00"), beatmap.ErrAudioFormatInvalid},
		{"image", testutil.PNG(t, 4, 4), beatmap.ErrAudioFormatInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(t, testutil.Replace(m.Files(t), m.Song, tt.audio))
			err := Pipe{}.Run(ctx)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr.Kind, err)
			}
		})
	}
}

func TestAudioMissing(t *testing.T) {
	m := testutil.DefaultMap()
	ctx := newContext(t, testutil.Without(m.Files(t), m.Song))
	err := Pipe{}.Run(ctx)
	var uerr *beatmap.UploadError
	if !errors.As(err, &uerr) || uerr.Kind != beatmap.AudioMissing || uerr.Filename != m.Song {
		t.Fatalf("expected AudioMissing(%s), got %v", m.Song, err)
	}
}

func TestCoverCheckedBeforeAudio(t *testing.T) {
	m := testutil.DefaultMap()
	files := testutil.Replace(m.Files(t), m.Cover, testutil.PNG(t, 64, 64))
	files = testutil.Without(files, m.Song)
	if err := (Pipe{}).Run(newContext(t, files)); !errors.Is(err, beatmap.ErrCoverTooSmall) {
		t.Fatalf("expected the cover error first, got %v", err)
	}
}

func TestMissingFilenameFields(t *testing.T) {
	for _, manifest := range []string{
		`{"_songFilename":"song.ogg"}`,
		`{"_coverImageFilename":"cover.png","_songFilename":7}`,
	} {
		m := testutil.DefaultMap()
		ctx := newContext(t, testutil.Replace(m.Files(t), info.FileName, []byte(manifest)))
		if err := (Pipe{}).Run(ctx); !errors.Is(err, beatmap.ErrManifestInvalid) {
			t.Errorf("%s: expected ManifestInvalid, got %v", manifest, err)
		}
	}
}
