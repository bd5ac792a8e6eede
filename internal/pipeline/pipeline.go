// Package pipeline provides the ordered list of ingest pipes.
package pipeline

import (
	"fmt"

	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/internal/pipeline/middleware/errhandler"
	"github.com/beatsaver/ingest/internal/pipeline/middleware/logging"
	"github.com/beatsaver/ingest/internal/pipeline/middleware/skip"
	"github.com/beatsaver/ingest/internal/pipeline/pipe/audio"
	"github.com/beatsaver/ingest/internal/pipeline/pipe/difficulty"
	"github.com/beatsaver/ingest/internal/pipeline/pipe/fingerprint"
	"github.com/beatsaver/ingest/internal/pipeline/pipe/load"
	"github.com/beatsaver/ingest/internal/pipeline/pipe/manifest"
	"github.com/beatsaver/ingest/internal/pipeline/pipe/media"
	"github.com/beatsaver/ingest/internal/pipeline/pipe/metadata"
	"github.com/beatsaver/ingest/internal/pipeline/pipe/repack"
)

// Job defines a pipe, which can be part of a pipeline (a series of pipes).
type Job interface {
	fmt.Stringer

	// Run the pipe
	Run(ctx *context.Context) error
}

// Pipeline contains all pipe implementations in order.
var Pipeline = []Job{
	load.Pipe{},
	manifest.Pipe{},
	media.Pipe{},
	audio.Pipe{},
	difficulty.Pipe{},
	fingerprint.Pipe{},
	metadata.Pipe{},
	repack.Pipe{},
}

// Run runs every pipe in order and stops at the first error. A cancelled ctx
// stops the run between pipes.
func Run(ctx *context.Context) error {
	for _, pipe := range Pipeline {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := skip.Maybe(
			pipe,
			logging.Log(
				pipe.String(),
				errhandler.Handle(pipe.Run),
			),
		)(ctx); err != nil {
			return err
		}
	}
	return nil
}
