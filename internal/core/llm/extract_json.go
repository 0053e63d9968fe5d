package llm

import "strings"

// extractJSON tries to extract JSON from a response that might have extra
// text or markdown fences around it. Arrays are preferred over objects
// because the extraction contract returns an array.
func extractJSON(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	start = strings.Index(text, "{")
	end = strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
