package ingest

import "github.com/beatsaver/ingest/pkg/container"

// DefaultParallelism is the default bound on concurrent difficulty reads.
const DefaultParallelism = 4

type options struct {
	parallelism   int
	compression   container.Compression
	maxMemberSize int64
}

func defaultOptions() options {
	return options{
		parallelism: DefaultParallelism,
		compression: container.Store,
	}
}

// Option configures Process.
type Option func(*options)

// WithParallelism bounds how many difficulty files are read at once. Values
// below 1 are treated as 1.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = max(n, 1)
	}
}

// WithCompression sets the method members of the output archive are written
// with. The default is container.Store.
func WithCompression(c container.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMaxMemberSize rejects archives with a member that inflates beyond n
// bytes as ContainerCorrupt. Zero, the default, disables the check.
func WithMaxMemberSize(n int64) Option {
	return func(o *options) {
		o.maxMemberSize = n
	}
}
