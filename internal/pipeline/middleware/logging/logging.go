// Package logging logs the start and duration of every Job.
package logging

import (
	"time"

	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/internal/pipeline/middleware"
	"github.com/fatih/color"
)

var bold = color.New(color.Bold).SprintFunc()

// Log wraps next so its title is logged before it runs and the elapsed time
// after it returns.
func Log(title string, next middleware.Action) middleware.Action {
	return func(ctx *context.Context) error {
		log.Debug(bold(title))
		start := time.Now()
		err := next(ctx)
		l := log.WithFields(log.Fields{
			"pipe": title,
			"took": time.Since(start).Round(time.Microsecond).String(),
		})
		if err != nil {
			l.WithError(err).Debug("failed")
			return err
		}
		l.Debug("done")
		return nil
	}
}
