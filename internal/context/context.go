// Package context provides the ingest context which is passed through the
// pipeline.
//
// The context extends the standard library context and adds the working state
// of one submission, so pipes can use what previous pipes produced without
// really knowing each other.
package context

import (
	stdctx "context"

	"github.com/beatsaver/ingest/internal/magic"
	"github.com/beatsaver/ingest/pkg/beatmap"
	"github.com/beatsaver/ingest/pkg/container"
	"github.com/beatsaver/ingest/pkg/info"
)

// Context carries along one submission through the pipes.
type Context struct {
	stdctx.Context

	// Parallelism bounds the concurrent difficulty reads.
	Parallelism   int
	Compression   container.Compression
	MaxMemberSize int64

	Raw       []byte
	Container *container.Container
	Manifest  *info.Manifest

	Cover     []byte
	CoverKind magic.Kind

	Difficulties   []info.DifficultyBeatmap
	DifficultyData [][]byte

	Hash    string
	Parsed  *beatmap.ParsedBeatmap
	Archive []byte
}

// New context.
func New(raw []byte) *Context {
	return Wrap(stdctx.Background(), raw)
}

// Wrap wraps an existing context.
func Wrap(ctx stdctx.Context, raw []byte) *Context {
	return &Context{
		Context:     ctx,
		Parallelism: 4,
		Compression: container.Store,
		Raw:         raw,
	}
}
