package audiofile

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// extensionFromFileType returns the file extension for tag.FileType.
func extensionFromFileType(ft tag.FileType) string {
	switch ft {
	case tag.FLAC:
		return "flac"
	case tag.MP3:
		return "mp3"
	case tag.OGG:
		return "ogg"
	case tag.M4A, tag.ALAC:
		return "m4a"
	case tag.M4B:
		return "m4b"
	case tag.M4P:
		return "m4p"
	default:
		return ""
	}
}

func contentTypeFromFileType(ft tag.FileType) string {
	switch ft {
	case tag.FLAC:
		return "audio/flac"
	case tag.MP3:
		return "audio/mpeg"
	case tag.OGG:
		return "audio/ogg"
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return "audio/mp4"
	default:
		return ""
	}
}

// Identify detects the container of a tagged audio stream.
// Returns empty strings when the format is not recognised.
func Identify(r io.ReadSeeker) (ext string, contentType string, err error) {
	_, fileType, err := tag.Identify(r)
	if err != nil || fileType == tag.UnknownFileType {
		return "", "", err
	}
	return extensionFromFileType(fileType), contentTypeFromFileType(fileType), nil
}

// ContentTypeFromExtension returns the MIME type for common audio file
// extensions, or "" when unknown.
func ContentTypeFromExtension(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "wav":
		return "audio/wav"
	case "mp3":
		return "audio/mpeg"
	case "flac":
		return "audio/flac"
	case "ogg":
		return "audio/ogg"
	case "m4a", "m4b", "m4p":
		return "audio/mp4"
	default:
		return ""
	}
}
