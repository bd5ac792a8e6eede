package skip

import (
	"testing"

	"github.com/beatsaver/ingest/internal/context"
)

type dummy struct {
	skip bool
}

func (d dummy) String() string                 { return "dummy" }
func (d dummy) Skip(ctx *context.Context) bool { return d.skip }

func TestMaybe(t *testing.T) {
	tests := []struct {
		name    string
		skipper any
		ran     bool
	}{
		{"skipped", dummy{skip: true}, false},
		{"not skipped", dummy{skip: false}, true},
		{"not a skipper", struct{}{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran := false
			err := Maybe(tt.skipper, func(ctx *context.Context) error {
				ran = true
				return nil
			})(context.New(nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ran != tt.ran {
				t.Errorf("expected ran=%v, got %v", tt.ran, ran)
			}
		})
	}
}
