package common

import (
	"strconv"
	"strings"
)

// MetadataString retrieves a string value from descriptor metadata with
// optional fallback keys. Keys are checked in order; first non-empty wins.
func MetadataString(metadata map[string]string, keys ...string) (string, bool) {
	for _, key := range keys {
		if value := strings.TrimSpace(metadata[key]); value != "" {
			return value, true
		}
	}
	return "", false
}

// MetadataStringWithDefault retrieves a string from metadata, or returns def.
func MetadataStringWithDefault(metadata map[string]string, def string, keys ...string) string {
	if value, ok := MetadataString(metadata, keys...); ok {
		return value
	}
	return def
}

// MetadataInt retrieves an integer value from metadata.
func MetadataInt(metadata map[string]string, keys ...string) (int, bool) {
	for _, key := range keys {
		if value, err := strconv.Atoi(strings.TrimSpace(metadata[key])); err == nil {
			return value, true
		}
	}
	return 0, false
}

// MetadataIntWithDefault retrieves an integer from metadata, or returns def.
func MetadataIntWithDefault(metadata map[string]string, def int, keys ...string) int {
	if value, ok := MetadataInt(metadata, keys...); ok {
		return value
	}
	return def
}

// MetadataList splits a comma/space separated metadata value.
// "1/1, 1/2 1/3" yields [1/1 1/2 1/3]. Missing keys yield def.
func MetadataList(metadata map[string]string, def []string, keys ...string) []string {
	value, ok := MetadataString(metadata, keys...)
	if !ok {
		return def
	}
	items := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(items) == 0 {
		return def
	}
	return items
}
