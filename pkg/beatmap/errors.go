package beatmap

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies why a submission was rejected.
type Kind int

const (
	ContainerCorrupt Kind = iota + 1
	ManifestMissing
	ManifestInvalid
	CoverMissing
	CoverFormatInvalid
	CoverNotSquare
	CoverTooSmall
	AudioMissing
	AudioFormatInvalid
	DifficultyMissing
)

type kindInfo struct {
	code    int
	name    string
	message string
	status  int
}

// codes are returned to clients verbatim. Never reassign a value.
var codes = map[Kind]kindInfo{
	ContainerCorrupt:   {0x30003, "ERR_BEATMAP_NOT_ZIP", "beatmap is not a zip", http.StatusBadRequest},
	ManifestMissing:    {0x30006, "ERR_BEATMAP_INFO_NOT_FOUND", "info.dat not found", http.StatusBadRequest},
	ManifestInvalid:    {0x30007, "ERR_BEATMAP_INFO_INVALID", "invalid info.dat", http.StatusBadRequest},
	DifficultyMissing:  {0x30008, "ERR_BEATMAP_DIFF_NOT_FOUND", "difficulty not found", http.StatusBadRequest},
	CoverMissing:       {0x30009, "ERR_BEATMAP_COVER_NOT_FOUND", "cover image not found", http.StatusBadRequest},
	CoverFormatInvalid: {0x3000a, "ERR_BEATMAP_COVER_INVALID", "beatmap cover image invalid", http.StatusBadRequest},
	CoverNotSquare:     {0x3000b, "ERR_BEATMAP_COVER_NOT_SQUARE", "beatmap cover image not a square", http.StatusBadRequest},
	CoverTooSmall:      {0x3000c, "ERR_BEATMAP_COVER_TOO_SMOL", "beatmap cover image is too small", http.StatusBadRequest},
	AudioMissing:       {0x3000d, "ERR_BEATMAP_AUDIO_NOT_FOUND", "audio file not found", http.StatusBadRequest},
	AudioFormatInvalid: {0x3000e, "ERR_BEATMAP_AUDIO_INVALID", "beatmap audio file invalid", http.StatusBadRequest},
}

// Kinds returns every rejection kind in code order.
func Kinds() []Kind {
	return []Kind{
		ContainerCorrupt,
		ManifestMissing,
		ManifestInvalid,
		DifficultyMissing,
		CoverMissing,
		CoverFormatInvalid,
		CoverNotSquare,
		CoverTooSmall,
		AudioMissing,
		AudioFormatInvalid,
	}
}

// Code returns the stable numeric error code.
func (k Kind) Code() int { return codes[k].code }

// Name returns the stable symbolic error code.
func (k Kind) Name() string { return codes[k].name }

// Status returns the HTTP status the calling layer should answer with.
func (k Kind) Status() int { return codes[k].status }

// Message returns the default human readable description.
func (k Kind) Message() string { return codes[k].message }

func (k Kind) String() string {
	if info, ok := codes[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// UploadError is the terminal error returned for a rejected submission.
type UploadError struct {
	Kind Kind
	// Filename is the archive member the error refers to, if any.
	Filename string
	Err      error
}

// NewError creates an UploadError of the given kind.
func NewError(kind Kind, filename string, err error) *UploadError {
	return &UploadError{Kind: kind, Filename: filename, Err: err}
}

func (e *UploadError) Error() string {
	var msg string
	switch e.Kind {
	case CoverMissing, AudioMissing, DifficultyMissing:
		msg = fmt.Sprintf("%s not found", e.Filename)
	default:
		msg = codes[e.Kind].message
		if e.Filename != "" {
			msg = fmt.Sprintf("%s: %s", msg, e.Filename)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UploadError) Unwrap() error { return e.Err }

// Is reports whether target is an UploadError of the same kind. It lets
// callers match against the Err* sentinels with errors.Is.
func (e *UploadError) Is(target error) bool {
	t, ok := target.(*UploadError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrContainerCorrupt   = &UploadError{Kind: ContainerCorrupt}
	ErrManifestMissing    = &UploadError{Kind: ManifestMissing}
	ErrManifestInvalid    = &UploadError{Kind: ManifestInvalid}
	ErrCoverMissing       = &UploadError{Kind: CoverMissing}
	ErrCoverFormatInvalid = &UploadError{Kind: CoverFormatInvalid}
	ErrCoverNotSquare     = &UploadError{Kind: CoverNotSquare}
	ErrCoverTooSmall      = &UploadError{Kind: CoverTooSmall}
	ErrAudioMissing       = &UploadError{Kind: AudioMissing}
	ErrAudioFormatInvalid = &UploadError{Kind: AudioFormatInvalid}
	ErrDifficultyMissing  = &UploadError{Kind: DifficultyMissing}
)

// KindOf extracts the rejection kind from err.
func KindOf(err error) (Kind, bool) {
	var uerr *UploadError
	if errors.As(err, &uerr) {
		return uerr.Kind, true
	}
	return 0, false
}
