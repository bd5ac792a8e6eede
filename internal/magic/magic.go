// Package magic identifies media formats from their leading bytes.
package magic

import "bytes"

// Kind is a sniffed file format.
type Kind int

const (
	Unknown Kind = iota
	PNG
	JPEG
	GIF
	WebP
	BMP
	OggVorbis
	OggOpus
	OggFLAC
	Ogg
	WAV
	FLAC
	MP3
)

type part struct {
	offset int
	magic  []byte
}

// signature matches when every part matches.
type signature struct {
	kind  Kind
	parts []part
}

// signatures is checked in order, so more specific entries come first.
//
//nolint:gochecknoglobals
var signatures = []signature{
	{JPEG, []part{{0, []byte{0xFF, 0xD8, 0xFF}}}},
	{PNG, []part{{0, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}}}},
	{GIF, []part{{0, []byte("GIF8")}}},
	{WebP, []part{{0, []byte("RIFF")}, {8, []byte("WEBP")}}},
	{BMP, []part{{0, []byte("BM")}}},
	// Ogg pages carry the codec identification header at offset 28.
	{OggVorbis, []part{{0, []byte("OggS")}, {28, []byte("\x01vorbis")}}},
	{OggOpus, []part{{0, []byte("OggS")}, {28, []byte("OpusHead")}}},
	{OggFLAC, []part{{0, []byte("OggS")}, {28, []byte("\x7fFLAC")}}},
	{Ogg, []part{{0, []byte("OggS")}}},
	{WAV, []part{{0, []byte("RIFF")}, {8, []byte("WAVE")}}},
	{FLAC, []part{{0, []byte("fLaC")}}},
	{MP3, []part{{0, []byte("ID3")}}},
	{MP3, []part{{0, []byte{0xFF, 0xFB}}}},
}

// Detect returns the kind of data, or Unknown.
func Detect(data []byte) Kind {
	for _, sig := range signatures {
		if sig.match(data) {
			return sig.kind
		}
	}
	return Unknown
}

func (s signature) match(data []byte) bool {
	for _, p := range s.parts {
		end := p.offset + len(p.magic)
		if len(data) < end || !bytes.Equal(data[p.offset:end], p.magic) {
			return false
		}
	}
	return true
}

// Extension returns the canonical file extension, including the dot.
func (k Kind) Extension() string {
	switch k {
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case GIF:
		return ".gif"
	case WebP:
		return ".webp"
	case BMP:
		return ".bmp"
	case OggVorbis:
		return ".ogg"
	case OggOpus:
		return ".opus"
	case OggFLAC:
		return ".oga"
	case Ogg:
		return ".ogx"
	case WAV:
		return ".wav"
	case FLAC:
		return ".flac"
	case MP3:
		return ".mp3"
	}
	return ""
}

func (k Kind) String() string {
	switch k {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	case WebP:
		return "webp"
	case BMP:
		return "bmp"
	case OggVorbis:
		return "ogg/vorbis"
	case OggOpus:
		return "ogg/opus"
	case OggFLAC:
		return "ogg/flac"
	case Ogg:
		return "ogg"
	case WAV:
		return "wav"
	case FLAC:
		return "flac"
	case MP3:
		return "mp3"
	}
	return "unknown"
}
