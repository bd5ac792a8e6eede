// Package testutil builds map submissions for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/klauspost/compress/zip"
)

// File is an archive member.
type File struct {
	Name   string
	Data   []byte
	Method uint16
}

// Zip writes files, in order, into a zip archive. Names ending in "/" become
// directory entries.
func Zip(t testing.TB, files ...File) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		method := f.Method
		if method == 0 && len(f.Data) > 0 {
			method = zip.Deflate
		}
		fw, err := w.CreateHeader(&zip.FileHeader{Name: f.Name, Method: method})
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", f.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// PNG encodes a w×h image.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(w, h)); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// JPEG encodes a w×h image.
func JPEG(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(w, h), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	return img
}

// OggVorbis returns the first page of an Ogg Vorbis stream followed by filler.
func OggVorbis() []byte {
	b := []byte("OggS")
	// version, BOS flag, granule position
	b = append(b, 0x00, 0x02)
	b = append(b, make([]byte, 8)...)
	// serial, sequence, crc
	b = binary.LittleEndian.AppendUint32(b, 0x1234)
	b = append(b, make([]byte, 8)...)
	// one segment of 30 bytes, identification header at offset 28
	b = append(b, 0x01, 30)
	b = append(b, "\x01vorbis"...)
	b = append(b, make([]byte, 23)...)
	return append(b, bytes.Repeat([]byte{0xAA}, 64)...)
}

// WAV returns a canonical PCM header followed by a few samples.
func WAV() []byte {
	samples := bytes.Repeat([]byte{0x00, 0x10}, 32)
	b := []byte("RIFF")
	b = binary.LittleEndian.AppendUint32(b, uint32(36+len(samples)))
	b = append(b, "WAVEfmt "...)
	b = binary.LittleEndian.AppendUint32(b, 16)
	b = binary.LittleEndian.AppendUint16(b, 1)     // PCM
	b = binary.LittleEndian.AppendUint16(b, 1)     // mono
	b = binary.LittleEndian.AppendUint32(b, 44100) // sample rate
	b = binary.LittleEndian.AppendUint32(b, 88200) // byte rate
	b = binary.LittleEndian.AppendUint16(b, 2)
	b = binary.LittleEndian.AppendUint16(b, 16)
	b = append(b, "data"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(samples)))
	return append(b, samples...)
}

// Difficulty is one declared difficulty beatmap.
type Difficulty struct {
	Filename string
	Rank     int
}

// Set is one declared characteristic set.
type Set struct {
	Characteristic string
	Difficulties   []Difficulty
}

// Map describes a submission.
type Map struct {
	SongName        string
	SongSubName     string
	SongAuthorName  string
	LevelAuthorName string
	BPM             float64
	Song            string
	Cover           string
	Sets            []Set
}

// DefaultMap is a valid submission with two sets and Ogg audio.
func DefaultMap() Map {
	return Map{
		SongName:        "Reality Check Through The Skull",
		SongSubName:     "feat. Nobody",
		SongAuthorName:  "DM DOKURO",
		LevelAuthorName: "mapper",
		BPM:             186,
		Song:            "song.ogg",
		Cover:           "cover.png",
		Sets: []Set{
			{Characteristic: "Standard", Difficulties: []Difficulty{
				{Filename: "Easy.dat", Rank: 1},
				{Filename: "Expert.dat", Rank: 7},
			}},
			{Characteristic: "OneSaber", Difficulties: []Difficulty{
				{Filename: "OneSaberExpertPlus.dat", Rank: 9},
			}},
		},
	}
}

type infoJSON struct {
	Version               string    `json:"_version"`
	SongName              string    `json:"_songName"`
	SongSubName           string    `json:"_songSubName"`
	SongAuthorName        string    `json:"_songAuthorName"`
	LevelAuthorName       string    `json:"_levelAuthorName"`
	BeatsPerMinute        float64   `json:"_beatsPerMinute"`
	SongFilename          string    `json:"_songFilename"`
	CoverImageFilename    string    `json:"_coverImageFilename"`
	DifficultyBeatmapSets []setJSON `json:"_difficultyBeatmapSets"`
}

type setJSON struct {
	CharacteristicName string     `json:"_beatmapCharacteristicName"`
	DifficultyBeatmaps []diffJSON `json:"_difficultyBeatmaps"`
}

type diffJSON struct {
	DifficultyRank  int    `json:"_difficultyRank"`
	BeatmapFilename string `json:"_beatmapFilename"`
}

// Manifest renders m as info.dat.
func (m Map) Manifest() []byte {
	info := infoJSON{
		Version:               "2.0.0",
		SongName:              m.SongName,
		SongSubName:           m.SongSubName,
		SongAuthorName:        m.SongAuthorName,
		LevelAuthorName:       m.LevelAuthorName,
		BeatsPerMinute:        m.BPM,
		SongFilename:          m.Song,
		CoverImageFilename:    m.Cover,
		DifficultyBeatmapSets: make([]setJSON, 0, len(m.Sets)),
	}
	for _, s := range m.Sets {
		set := setJSON{CharacteristicName: s.Characteristic, DifficultyBeatmaps: make([]diffJSON, 0, len(s.Difficulties))}
		for _, d := range s.Difficulties {
			set.DifficultyBeatmaps = append(set.DifficultyBeatmaps, diffJSON{DifficultyRank: d.Rank, BeatmapFilename: d.Filename})
		}
		info.DifficultyBeatmapSets = append(info.DifficultyBeatmapSets, set)
	}
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		panic(err)
	}
	return b
}

// DifficultyData is the content written for a difficulty file.
func DifficultyData(filename string) []byte {
	return []byte(fmt.Sprintf(`{"_version":"2.0.0","_notes":[],"_name":%q}`, filename))
}

// Files returns info.dat, a 256×256 PNG cover, Ogg Vorbis audio, and every
// declared difficulty file.
func (m Map) Files(t testing.TB) []File {
	t.Helper()
	files := []File{
		{Name: "info.dat", Data: m.Manifest()},
		{Name: m.Cover, Data: PNG(t, 256, 256)},
		{Name: m.Song, Data: OggVorbis()},
	}
	seen := make(map[string]bool)
	for _, s := range m.Sets {
		for _, d := range s.Difficulties {
			if seen[d.Filename] {
				continue
			}
			seen[d.Filename] = true
			files = append(files, File{Name: d.Filename, Data: DifficultyData(d.Filename)})
		}
	}
	return files
}

// Replace swaps the data of the named file, or appends it.
func Replace(files []File, name string, data []byte) []File {
	out := make([]File, 0, len(files)+1)
	found := false
	for _, f := range files {
		if f.Name == name {
			f.Data = data
			found = true
		}
		out = append(out, f)
	}
	if !found {
		out = append(out, File{Name: name, Data: data})
	}
	return out
}

// Without drops the named file.
func Without(files []File, name string) []File {
	out := make([]File, 0, len(files))
	for _, f := range files {
		if f.Name != name {
			out = append(out, f)
		}
	}
	return out
}
