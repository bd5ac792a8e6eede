// Package middleware define middlewares for Jobs.
package middleware

import "github.com/beatsaver/ingest/internal/context"

// Action is a function that takes a context and returns an error.
// It is used on every Piper, although pipes are not aware of this
// generalization.
type Action func(ctx *context.Context) error
