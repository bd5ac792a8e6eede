// Package manifest locates and syntax-checks info.dat.
package manifest

import (
	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/pkg/beatmap"
	"github.com/beatsaver/ingest/pkg/info"
)

// Pipe for the manifest.
type Pipe struct{}

// String returns the description of the pipe.
func (Pipe) String() string { return "reading info.dat" }

// Run looks up info.dat by its exact name and checks it is valid JSON. Field
// level validation happens where each field is first used.
func (Pipe) Run(ctx *context.Context) error {
	data, ok := ctx.Container.Get(info.FileName)
	if !ok {
		return beatmap.NewError(beatmap.ManifestMissing, "", nil)
	}
	m, err := info.Parse(data)
	if err != nil {
		return beatmap.NewError(beatmap.ManifestInvalid, "", err)
	}
	ctx.Manifest = m

	if version, err := m.Version(); err == nil && version != "" {
		log.WithField("version", version).Debug("manifest parsed")
	}

	return nil
}
