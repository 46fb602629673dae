package storage

import (
	"path"
	"strings"
)

// SubtitlePath returns <folder>/subtitles/<language>.<ext>.
func SubtitlePath(folder, language, ext string) string {
	if language == "" {
		language = "auto_generated"
	}
	return path.Join(folder, "subtitles", language+"."+strings.TrimPrefix(ext, "."))
}
