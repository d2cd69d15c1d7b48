package infrastructure

import (
	"path/filepath"
	"strings"
)

// ContentTypeForFilename возвращает MIME-тип по расширению файла.
// Неизвестные расширения отдаются как application/octet-stream.
func ContentTypeForFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
