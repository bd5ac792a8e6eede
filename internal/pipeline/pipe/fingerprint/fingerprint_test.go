package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/pkg/info"
)

func TestRun(t *testing.T) {
	manifest := []byte(`{"_songName":"x"}`)
	m, err := info.Parse(manifest)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		name  string
		diffs [][]byte
	}{
		{"no difficulties", nil},
		{"two difficulties", [][]byte{[]byte("easy"), []byte("hard")}},
		{"swapped", [][]byte{[]byte("hard"), []byte("easy")}},
	}
	seen := make(map[string]string)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.New(nil)
			ctx.Manifest = m
			ctx.DifficultyData = tt.diffs
			if err := (Pipe{}).Run(ctx); err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			h := sha1.New()
			h.Write(manifest)
			for _, d := range tt.diffs {
				h.Write(d)
			}
			if want := hex.EncodeToString(h.Sum(nil)); ctx.Hash != want {
				t.Errorf("expected %s, got %s", want, ctx.Hash)
			}
			if other, ok := seen[ctx.Hash]; ok {
				t.Errorf("%s collides with %s", tt.name, other)
			}
			seen[ctx.Hash] = tt.name
		})
	}
}
