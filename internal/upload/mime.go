package upload

import (
	"path/filepath"
	"strings"
)

// FallbackContentType is sent for anything that is not a known video type.
const FallbackContentType = "application/octet-stream"

// videoTypes maps lowercase extensions to the Content-Type sent for the
// file part.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".ts":   "video/mp2t",
	".m2ts": "video/mp2t",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".vob":  "video/dvd",
	".ogv":  "video/ogg",
	".3gp":  "video/3gpp",
}

// ContentType infers the file part's Content-Type from its extension.
func ContentType(path string) string {
	if ct, ok := videoTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return FallbackContentType
}

// IsVideo reports whether path has a known video extension.
func IsVideo(path string) bool {
	_, ok := videoTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}
