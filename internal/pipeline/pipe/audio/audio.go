// Package audio renames Ogg tracks to the .egg extension the game expects.
package audio

import (
	"path"
	"strings"

	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/pkg/beatmap"
	"github.com/beatsaver/ingest/pkg/info"
)

const (
	oggExt = ".ogg"
	eggExt = ".egg"
)

// Pipe for audio normalization.
type Pipe struct{}

// String returns the description of the pipe.
func (Pipe) String() string { return "normalizing audio" }

// Skip unless the declared song filename ends in ".ogg". The sniffed type is
// not consulted.
func (Pipe) Skip(ctx *context.Context) bool {
	name, err := ctx.Manifest.SongFilename()
	return err != nil || !NeedsRename(name)
}

// Run moves the track to its .egg name and points info.dat at it.
func (Pipe) Run(ctx *context.Context) error {
	name, err := ctx.Manifest.SongFilename()
	if err != nil {
		return beatmap.NewError(beatmap.ManifestInvalid, "", err)
	}
	egg := EggName(name)

	if err := ctx.Container.Rename(name, egg); err != nil {
		return beatmap.NewError(beatmap.AudioMissing, name, err)
	}
	m, err := ctx.Manifest.WithSongFilename(egg)
	if err != nil {
		return beatmap.NewError(beatmap.ManifestInvalid, "", err)
	}
	ctx.Manifest = m
	ctx.Container.Put(info.FileName, m.Bytes())

	log.WithFields(log.Fields{
		"from": name,
		"to":   egg,
	}).Debug("renamed audio")

	return nil
}

// NeedsRename reports whether name has a case-sensitive ".ogg" extension. A
// bare ".ogg" base name is a dotfile without an extension.
func NeedsRename(name string) bool {
	base := path.Base(name)
	return strings.HasSuffix(base, oggExt) && base != oggExt
}

// EggName swaps the ".ogg" extension for ".egg", keeping the directory.
func EggName(name string) string {
	return strings.TrimSuffix(name, oggExt) + eggExt
}
