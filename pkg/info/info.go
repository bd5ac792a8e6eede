// Package info reads the info.dat manifest of a map archive.
//
// Parse only checks that the manifest is well-formed JSON. Fields are decoded
// on access and every accessor returns a *FieldError when a required field is
// absent or has the wrong type, so callers decide when a field matters.
//
// Accessors read a normalized copy of the document in which a duplicate key
// resolves to its last value.
package info

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// FileName is the exact member name of the manifest.
const FileName = "info.dat"

const (
	keyVersion               = "_version"
	keySongName              = "_songName"
	keySongSubName           = "_songSubName"
	keySongAuthorName        = "_songAuthorName"
	keyLevelAuthorName       = "_levelAuthorName"
	keyBeatsPerMinute        = "_beatsPerMinute"
	keySongFilename          = "_songFilename"
	keyCoverImageFilename    = "_coverImageFilename"
	keyDifficultyBeatmapSets = "_difficultyBeatmapSets"
	keyCharacteristicName    = "_beatmapCharacteristicName"
	keyDifficultyBeatmaps    = "_difficultyBeatmaps"
	keyDifficulty            = "_difficulty"
	keyDifficultyRank        = "_difficultyRank"
	keyBeatmapFilename       = "_beatmapFilename"
)

// reserializeOptions matches JSON.stringify(v, null, 2) plus a trailing
// newline. Width 0 keeps arrays multi-line.
var reserializeOptions = &pretty.Options{Indent: "  "}

// FieldError reports a missing or mistyped manifest field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Manifest is a syntactically valid info.dat.
type Manifest struct {
	raw  []byte
	view []byte
}

// DifficultyBeatmapSet groups the difficulties of one characteristic.
type DifficultyBeatmapSet struct {
	CharacteristicName string
	DifficultyBeatmaps []DifficultyBeatmap
}

// DifficultyBeatmap is a declared difficulty file.
type DifficultyBeatmap struct {
	// Difficulty is the optional display name (e.g. "ExpertPlus").
	Difficulty      string
	DifficultyRank  int
	BeatmapFilename string
}

// Parse validates that data is well-formed JSON.
func Parse(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("info.dat is not valid JSON")
	}
	return &Manifest{raw: data, view: normalize(data)}, nil
}

// Bytes returns the manifest content exactly as it is stored in the archive.
func (m *Manifest) Bytes() []byte { return m.raw }

// Version returns the schema version string, or "" when absent.
func (m *Manifest) Version() (string, error) {
	return optionalString(m.get(keyVersion), keyVersion)
}

func (m *Manifest) SongName() (string, error) {
	return requiredString(m.get(keySongName), keySongName)
}

// SongSubName is optional and defaults to "".
func (m *Manifest) SongSubName() (string, error) {
	return optionalString(m.get(keySongSubName), keySongSubName)
}

func (m *Manifest) SongAuthorName() (string, error) {
	return requiredString(m.get(keySongAuthorName), keySongAuthorName)
}

func (m *Manifest) LevelAuthorName() (string, error) {
	return requiredString(m.get(keyLevelAuthorName), keyLevelAuthorName)
}

// SongFilename is the archive path of the audio track.
func (m *Manifest) SongFilename() (string, error) {
	return requiredString(m.get(keySongFilename), keySongFilename)
}

// CoverImageFilename is the archive path of the cover image.
func (m *Manifest) CoverImageFilename() (string, error) {
	return requiredString(m.get(keyCoverImageFilename), keyCoverImageFilename)
}

// BeatsPerMinute must be a positive finite number.
func (m *Manifest) BeatsPerMinute() (float64, error) {
	r := m.get(keyBeatsPerMinute)
	if !r.Exists() {
		return 0, &FieldError{keyBeatsPerMinute, "is missing"}
	}
	if r.Type != gjson.Number {
		return 0, &FieldError{keyBeatsPerMinute, "is not a number"}
	}
	if math.IsInf(r.Num, 0) || math.IsNaN(r.Num) || r.Num <= 0 {
		return 0, &FieldError{keyBeatsPerMinute, "must be positive and finite"}
	}
	return r.Num, nil
}

// DifficultyBeatmapSets decodes the declared sets in manifest order.
func (m *Manifest) DifficultyBeatmapSets() ([]DifficultyBeatmapSet, error) {
	r := m.get(keyDifficultyBeatmapSets)
	if !r.IsArray() {
		return nil, &FieldError{keyDifficultyBeatmapSets, "is not an array"}
	}

	var sets []DifficultyBeatmapSet
	for i, rs := range r.Array() {
		field := fmt.Sprintf("%s[%d]", keyDifficultyBeatmapSets, i)
		if !rs.IsObject() {
			return nil, &FieldError{field, "is not an object"}
		}
		name, err := requiredString(rs.Get(keyCharacteristicName), field+"."+keyCharacteristicName)
		if err != nil {
			return nil, err
		}
		rd := rs.Get(keyDifficultyBeatmaps)
		if !rd.IsArray() {
			return nil, &FieldError{field + "." + keyDifficultyBeatmaps, "is not an array"}
		}
		set := DifficultyBeatmapSet{CharacteristicName: name}
		for j, rb := range rd.Array() {
			bm, err := parseDifficulty(rb, fmt.Sprintf("%s.%s[%d]", field, keyDifficultyBeatmaps, j))
			if err != nil {
				return nil, err
			}
			set.DifficultyBeatmaps = append(set.DifficultyBeatmaps, bm)
		}
		sets = append(sets, set)
	}

	return sets, nil
}

func parseDifficulty(r gjson.Result, field string) (DifficultyBeatmap, error) {
	var bm DifficultyBeatmap
	if !r.IsObject() {
		return bm, &FieldError{field, "is not an object"}
	}
	var err error
	if bm.BeatmapFilename, err = requiredString(r.Get(keyBeatmapFilename), field+"."+keyBeatmapFilename); err != nil {
		return bm, err
	}
	if bm.Difficulty, err = optionalString(r.Get(keyDifficulty), field+"."+keyDifficulty); err != nil {
		return bm, err
	}
	rank := r.Get(keyDifficultyRank)
	if rank.Type != gjson.Number || rank.Num != math.Trunc(rank.Num) || math.Abs(rank.Num) > math.MaxInt32 {
		return bm, &FieldError{field + "." + keyDifficultyRank, "is not an integer"}
	}
	bm.DifficultyRank = int(rank.Num)
	return bm, nil
}

// Flatten lists every difficulty in set order, then in-set order.
func Flatten(sets []DifficultyBeatmapSet) []DifficultyBeatmap {
	var out []DifficultyBeatmap
	for _, s := range sets {
		out = append(out, s.DifficultyBeatmaps...)
	}
	return out
}

// WithSongFilename returns a copy of the manifest with _songFilename replaced,
// serialized the way JSON.stringify(info, null, 2) + "\n" would write it. Keys
// keep their order; numbers and strings are rewritten in canonical form.
func (m *Manifest) WithSongFilename(name string) (*Manifest, error) {
	out, err := sjson.SetRawBytes(m.view, keySongFilename, appendString(nil, name))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to set %s", keySongFilename)
	}
	return &Manifest{raw: pretty.PrettyOptions(out, reserializeOptions), view: out}, nil
}

func (m *Manifest) get(key string) gjson.Result {
	return gjson.GetBytes(m.view, key)
}

func requiredString(r gjson.Result, field string) (string, error) {
	if !r.Exists() {
		return "", &FieldError{field, "is missing"}
	}
	if r.Type != gjson.String {
		return "", &FieldError{field, "is not a string"}
	}
	return r.Str, nil
}

func optionalString(r gjson.Result, field string) (string, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return "", nil
	}
	if r.Type != gjson.String {
		return "", &FieldError{field, "is not a string"}
	}
	return r.Str, nil
}
