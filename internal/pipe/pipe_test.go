package pipe

import (
	"fmt"
	"testing"
)

func TestIsSkip(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"skip", Skip("nothing to do"), true},
		{"wrapped", fmt.Errorf("difficulty: %w", Skip("no difficulties")), true},
		{"other", fmt.Errorf("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSkip(tt.err); got != tt.want {
				t.Errorf("IsSkip(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
	if Skip("reason").Error() != "reason" {
		t.Error("skip must report its reason")
	}
}
