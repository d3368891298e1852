package storage

import (
	"path/filepath"
	"strings"
)

const (
	contentJSON = "application/json"
	contentYAML = "application/yaml"
	contentText = "text/plain"
	contentAny  = "application/octet-stream"
)

// GetContentType tries to determine the content type of a file based on extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return contentJSON
	case ".yaml", ".yml":
		return contentYAML
	case ".txt", ".log", ".csv":
		return contentText
	default:
		return contentAny
	}
}

// contentType resolves an explicit format or falls back to the URL extension
func contentType(format, URL string) string {
	switch strings.ToLower(format) {
	case "json":
		return contentJSON
	case "yaml", "yml":
		return contentYAML
	case "text":
		return contentText
	case "raw":
		return contentAny
	}
	return GetContentType(URL)
}
