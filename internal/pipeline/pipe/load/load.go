// Package load decodes the uploaded archive into a working container.
package load

import (
	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/pkg/beatmap"
	"github.com/beatsaver/ingest/pkg/container"
	"github.com/dustin/go-humanize"
)

// Pipe for loading.
type Pipe struct{}

// String returns the description of the pipe.
func (Pipe) String() string { return "loading container" }

// Run decodes ctx.Raw. Any decode failure is a ContainerCorrupt rejection.
func (Pipe) Run(ctx *context.Context) error {
	c, err := container.Load(ctx.Raw, ctx.MaxMemberSize)
	if err != nil {
		return beatmap.NewError(beatmap.ContainerCorrupt, "", err)
	}
	ctx.Container = c

	log.WithFields(log.Fields{
		"members": c.Len(),
		"size":    humanize.Bytes(uint64(len(ctx.Raw))),
	}).Debug("container loaded")

	return nil
}
