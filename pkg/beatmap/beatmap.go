// Package beatmap contains the normalized description of an accepted map
// submission and the errors a submission can be rejected with.
package beatmap

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path"
)

// MinCoverSize is the smallest accepted cover edge in pixels.
const MinCoverSize = 256

// Rank is a difficulty rank as declared in info.dat.
type Rank int

const (
	RankEasy       Rank = 1
	RankNormal     Rank = 3
	RankHard       Rank = 5
	RankExpert     Rank = 7
	RankExpertPlus Rank = 9
)

// ParsedBeatmap is what the persistence layer stores for an accepted map.
type ParsedBeatmap struct {
	Hash     string   `json:"hash" yaml:"hash" jsonschema:"pattern=^[0-9a-f]{40}$"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	CoverExt string   `json:"coverExt" yaml:"coverExt" jsonschema:"enum=.png,enum=.jpg"`
}

// Metadata is the searchable part of a map.
type Metadata struct {
	SongName        string       `json:"songName" yaml:"songName"`
	SongSubName     string       `json:"songSubName" yaml:"songSubName"`
	SongAuthorName  string       `json:"songAuthorName" yaml:"songAuthorName"`
	LevelAuthorName string       `json:"levelAuthorName" yaml:"levelAuthorName"`
	BPM             float64      `json:"bpm" yaml:"bpm" jsonschema:"exclusiveMinimum=0"`
	Difficulties    Difficulties `json:"difficulties" yaml:"difficulties"`
	Characteristics []string     `json:"characteristics" yaml:"characteristics"`
}

// Difficulties flags which difficulty tiers a map provides.
type Difficulties struct {
	Easy       bool `json:"easy" yaml:"easy"`
	Normal     bool `json:"normal" yaml:"normal"`
	Hard       bool `json:"hard" yaml:"hard"`
	Expert     bool `json:"expert" yaml:"expert"`
	ExpertPlus bool `json:"expertPlus" yaml:"expertPlus"`
}

// DifficultiesFromRanks sets a flag for every known rank present in ranks.
// Unknown ranks are ignored and duplicates count once.
func DifficultiesFromRanks(ranks []int) Difficulties {
	var d Difficulties
	for _, r := range ranks {
		switch Rank(r) {
		case RankEasy:
			d.Easy = true
		case RankNormal:
			d.Normal = true
		case RankHard:
			d.Hard = true
		case RankExpert:
			d.Expert = true
		case RankExpertPlus:
			d.ExpertPlus = true
		}
	}
	return d
}

// Fingerprint returns the lowercase hex SHA-1 over the manifest bytes followed
// by every difficulty file in declaration order. It is the platform-wide
// duplicate key.
func Fingerprint(manifest []byte, difficulties [][]byte) string {
	h := sha1.New()
	h.Write(manifest)
	for _, d := range difficulties {
		h.Write(d)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ArchiveKey returns the object key the repackaged archive is stored under.
func (p ParsedBeatmap) ArchiveKey(key string) string {
	return path.Join(key, fmt.Sprintf("%s.zip", p.Hash))
}

// CoverKey returns the object key the cover image is stored under.
func (p ParsedBeatmap) CoverKey(key string) string {
	return path.Join(key, p.Hash+p.CoverExt)
}
