// Package difficulty resolves the declared difficulty files.
package difficulty

import (
	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/internal/pipe"
	"github.com/beatsaver/ingest/pkg/beatmap"
	"github.com/beatsaver/ingest/pkg/info"
	"golang.org/x/sync/errgroup"
)

// Pipe for difficulties.
type Pipe struct{}

// String returns the description of the pipe.
func (Pipe) String() string { return "resolving difficulties" }

// Run flattens the declared sets and reads every referenced file. The first
// missing reference, in declaration order, fails the pipe before any content
// is read. ctx.DifficultyData[i] always holds the bytes of ctx.Difficulties[i].
func (Pipe) Run(ctx *context.Context) error {
	sets, err := ctx.Manifest.DifficultyBeatmapSets()
	if err != nil {
		return beatmap.NewError(beatmap.ManifestInvalid, "", err)
	}
	ctx.Difficulties = info.Flatten(sets)
	ctx.DifficultyData = nil
	if len(ctx.Difficulties) == 0 {
		return pipe.Skip("no difficulties declared")
	}

	for _, d := range ctx.Difficulties {
		if !ctx.Container.Has(d.BeatmapFilename) {
			return beatmap.NewError(beatmap.DifficultyMissing, d.BeatmapFilename, nil)
		}
	}

	data := make([][]byte, len(ctx.Difficulties))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(ctx.Parallelism, 1))
	for i, d := range ctx.Difficulties {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, ok := ctx.Container.Get(d.BeatmapFilename)
			if !ok {
				return beatmap.NewError(beatmap.DifficultyMissing, d.BeatmapFilename, nil)
			}
			data[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	ctx.DifficultyData = data

	log.WithFields(log.Fields{
		"sets":         len(sets),
		"difficulties": len(data),
	}).Debug("difficulties resolved")

	return nil
}
