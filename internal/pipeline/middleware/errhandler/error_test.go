package errhandler

import (
	"errors"
	"testing"

	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/internal/pipe"
)

func TestHandle(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"skip", pipe.Skip("nothing to do"), nil},
		{"error", boom, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Handle(func(ctx *context.Context) error {
				return tt.err
			})(context.New(nil))
			if !errors.Is(got, tt.want) || (tt.want == nil && got != nil) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
