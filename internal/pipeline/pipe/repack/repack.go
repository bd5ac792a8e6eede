// Package repack serializes the working container.
package repack

import (
	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/context"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Pipe for repackaging.
type Pipe struct{}

// String returns the description of the pipe.
func (Pipe) String() string { return "repackaging" }

// Run writes every remaining member into a fresh archive.
func (Pipe) Run(ctx *context.Context) error {
	archive, err := ctx.Container.Bytes(ctx.Compression)
	if err != nil {
		return errors.Wrap(err, "failed to repackage archive")
	}
	ctx.Archive = archive

	log.WithFields(log.Fields{
		"compression": ctx.Compression,
		"size":        humanize.Bytes(uint64(len(archive))),
	}).Debug("archive written")

	return nil
}
