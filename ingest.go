// Package ingest validates and normalizes uploaded map archives.
//
// Process runs an archive through a fixed sequence of pipes: the container is
// decoded, info.dat is located and checked, the cover and audio are sniffed,
// an Ogg track is renamed to .egg, the difficulty files are resolved, and the
// result is fingerprinted and repackaged. The first failing pipe ends the run
// with a *beatmap.UploadError.
package ingest

import (
	stdctx "context"

	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/internal/pipeline"
	"github.com/beatsaver/ingest/pkg/beatmap"
)

// Result is an accepted submission.
type Result struct {
	Parsed beatmap.ParsedBeatmap
	// Cover is the cover image exactly as it was uploaded.
	Cover []byte
	// Archive is the normalized zip.
	Archive []byte
}

// Process validates raw and returns the normalized submission. raw is not
// modified. Rejections are *beatmap.UploadError values; a cancelled ctx
// returns ctx.Err().
func Process(ctx stdctx.Context, raw []byte, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pctx := context.Wrap(ctx, raw)
	pctx.Parallelism = o.parallelism
	pctx.Compression = o.compression
	pctx.MaxMemberSize = o.maxMemberSize

	if err := pipeline.Run(pctx); err != nil {
		if kind, ok := beatmap.KindOf(err); ok {
			log.WithField("code", kind.Name()).WithError(err).Debug("submission rejected")
		}
		return nil, err
	}

	return &Result{
		Parsed:  *pctx.Parsed,
		Cover:   pctx.Cover,
		Archive: pctx.Archive,
	}, nil
}
