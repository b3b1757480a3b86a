package transcription

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kbukum/audioscript/errors"
)

// MaxFileSize is the largest upload accepted, in bytes.
const MaxFileSize int64 = 100 * 1024 * 1024

// SupportedTypes are the canonical audio MIME types the service accepts.
var SupportedTypes = []string{
	"audio/wav",
	"audio/mp3",
	"audio/mpeg",
	"audio/ogg",
	"audio/webm",
	"audio/m4a",
}

var mimeAliases = map[string]string{
	"audio/x-wav":    "audio/wav",
	"audio/wave":     "audio/wav",
	"audio/vnd.wave": "audio/wav",
	"audio/x-m4a":    "audio/m4a",
	"audio/mp4a":     "audio/m4a",
}

// CanonicalType lower-cases t, strips parameters and maps known aliases to
// their canonical name.
func CanonicalType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		t = mt
	} else if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if c, ok := mimeAliases[t]; ok {
		return c
	}
	return t
}

// IsSupportedType reports whether t names a supported audio type.
func IsSupportedType(t string) bool {
	c := CanonicalType(t)
	for _, s := range SupportedTypes {
		if c == s {
			return true
		}
	}
	return false
}

// AudioFile is the audio selected for upload. Name, MIMEType and Size are
// checked before Open is ever called.
type AudioFile struct {
	Name     string
	MIMEType string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// FileFromBytes wraps in-memory audio.
func FileFromBytes(name, mimeType string, data []byte) AudioFile {
	return AudioFile{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// DetectFile describes the file at path, sniffing its content to determine
// the MIME type. Containers that also carry audio, such as WebM reported as
// video, are mapped to the matching supported audio type.
func DetectFile(path string) (AudioFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return AudioFile{}, errors.InvalidInput("file", err.Error()).WithCause(err)
	}
	if info.IsDir() {
		return AudioFile{}, errors.InvalidInput("file", path+" is a directory")
	}
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return AudioFile{}, errors.InvalidInput("file", err.Error()).WithCause(err)
	}
	return AudioFile{
		Name:     filepath.Base(path),
		MIMEType: audioType(detected),
		Size:     info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func audioType(m *mimetype.MIME) string {
	for _, t := range SupportedTypes {
		if m.Is(t) {
			return t
		}
	}
	if m.Is("video/webm") {
		return "audio/webm"
	}
	for p := m; p != nil; p = p.Parent() {
		if c := CanonicalType(p.String()); IsSupportedType(c) {
			return c
		}
	}
	return CanonicalType(m.String())
}
