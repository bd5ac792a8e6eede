// Package metadata projects the manifest onto a ParsedBeatmap.
package metadata

import (
	"github.com/beatsaver/ingest/internal/context"
	"github.com/beatsaver/ingest/pkg/beatmap"
)

// Pipe for metadata.
type Pipe struct{}

// String returns the description of the pipe.
func (Pipe) String() string { return "extracting metadata" }

// Run builds ctx.Parsed. Missing or mistyped fields are ManifestInvalid.
func (Pipe) Run(ctx *context.Context) error {
	meta, err := extract(ctx)
	if err != nil {
		return beatmap.NewError(beatmap.ManifestInvalid, "", err)
	}
	ctx.Parsed = &beatmap.ParsedBeatmap{
		Hash:     ctx.Hash,
		Metadata: meta,
		CoverExt: ctx.CoverKind.Extension(),
	}
	return nil
}

func extract(ctx *context.Context) (beatmap.Metadata, error) {
	var (
		meta beatmap.Metadata
		err  error
		m    = ctx.Manifest
	)

	if meta.SongName, err = m.SongName(); err != nil {
		return meta, err
	}
	if meta.SongSubName, err = m.SongSubName(); err != nil {
		return meta, err
	}
	if meta.SongAuthorName, err = m.SongAuthorName(); err != nil {
		return meta, err
	}
	if meta.LevelAuthorName, err = m.LevelAuthorName(); err != nil {
		return meta, err
	}
	if meta.BPM, err = m.BeatsPerMinute(); err != nil {
		return meta, err
	}

	sets, err := m.DifficultyBeatmapSets()
	if err != nil {
		return meta, err
	}
	meta.Characteristics = make([]string, 0, len(sets))
	for _, s := range sets {
		meta.Characteristics = append(meta.Characteristics, s.CharacteristicName)
	}

	ranks := make([]int, 0, len(ctx.Difficulties))
	for _, d := range ctx.Difficulties {
		ranks = append(ranks, d.DifficultyRank)
	}
	meta.Difficulties = beatmap.DifficultiesFromRanks(ranks)

	return meta, nil
}
