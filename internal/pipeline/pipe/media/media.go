// Package media validates the cover image and the audio track.
package media

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/internal/magic"
	"github.com/beatsaver/ingest/pkg/beatmap"
	"github.com/pkg/errors"
)

// Pipe for media validation.
type Pipe struct{}

// String returns the description of the pipe.
func (Pipe) String() string { return "validating media" }

// Run validates the cover first, then the audio.
func (Pipe) Run(ctx *context.Context) error {
	if err := validateCover(ctx); err != nil {
		return err
	}
	return validateAudio(ctx)
}

func validateCover(ctx *context.Context) error {
	name, err := ctx.Manifest.CoverImageFilename()
	if err != nil {
		return beatmap.NewError(beatmap.ManifestInvalid, "", err)
	}
	data, ok := ctx.Container.Get(name)
	if !ok {
		return beatmap.NewError(beatmap.CoverMissing, name, nil)
	}

	kind := magic.Detect(data)
	if kind != magic.PNG && kind != magic.JPEG {
		return beatmap.NewError(beatmap.CoverFormatInvalid, name, nil)
	}
	cfg, err := decodeConfig(kind, data)
	if err != nil {
		return beatmap.NewError(beatmap.CoverFormatInvalid, name, errors.Wrap(err, "failed to read image header"))
	}
	if cfg.Width != cfg.Height {
		return beatmap.NewError(beatmap.CoverNotSquare, name, nil)
	}
	if cfg.Width < beatmap.MinCoverSize {
		return beatmap.NewError(beatmap.CoverTooSmall, name, nil)
	}

	ctx.Cover = data
	ctx.CoverKind = kind
	log.WithFields(log.Fields{
		"cover": name,
		"type":  kind,
		"size":  cfg.Width,
	}).Debug("cover ok")

	return nil
}

// decodeConfig reads only the image header.
func decodeConfig(kind magic.Kind, data []byte) (image.Config, error) {
	r := bytes.NewReader(data)
	if kind == magic.PNG {
		return png.DecodeConfig(r)
	}
	return jpeg.DecodeConfig(r)
}

func validateAudio(ctx *context.Context) error {
	name, err := ctx.Manifest.SongFilename()
	if err != nil {
		return beatmap.NewError(beatmap.ManifestInvalid, "", err)
	}
	data, ok := ctx.Container.Get(name)
	if !ok {
		return beatmap.NewError(beatmap.AudioMissing, name, nil)
	}

	kind := magic.Detect(data)
	if kind != magic.OggVorbis && kind != magic.WAV {
		return beatmap.NewError(beatmap.AudioFormatInvalid, name, nil)
	}

	log.WithFields(log.Fields{
		"song": name,
		"type": kind,
	}).Debug("audio ok")

	return nil
}
