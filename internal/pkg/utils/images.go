package utils

import (
	"encoding/json"
	"strings"
)

// ImagesToString converts []string to JSON text (safe for any backend).
func ImagesToString(images []string) string {
	if len(images) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(images)
	return string(data)
}

// StringToImages converts stored images back to an ordered []string.
// It reads JSON text, Postgres array literals ({a,"b c"}) written by older
// deployments, and falls back to comma-separated text.
func StringToImages(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" || s == "{}" {
		return []string{}
	}
	if strings.HasPrefix(s, "[") {
		var images []string
		if err := json.Unmarshal([]byte(s), &images); err == nil {
			return images
		}
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return parsePGArray(s[1 : len(s)-1])
	}
	return splitTrim(s)
}

// NormalizeImages accepts a single string, a list, or nothing.
func NormalizeImages(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func parsePGArray(body string) []string {
	out := []string{}
	var cur strings.Builder
	inQuotes, escaped := false, false
	for _, r := range body {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 || len(out) > 0 {
		out = append(out, cur.String())
	}
	return out
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
