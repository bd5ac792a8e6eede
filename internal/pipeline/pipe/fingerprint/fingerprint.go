// Package fingerprint hashes a normalized submission.
package fingerprint

import (
	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/pkg/beatmap"
)

// Pipe for fingerprinting.
type Pipe struct{}

// String returns the description of the pipe.
func (Pipe) String() string { return "computing fingerprint" }

// Run hashes the final info.dat bytes followed by every difficulty in
// declaration order.
func (Pipe) Run(ctx *context.Context) error {
	ctx.Hash = beatmap.Fingerprint(ctx.Manifest.Bytes(), ctx.DifficultyData)
	log.WithField("hash", ctx.Hash).Debug("fingerprint")
	return nil
}
