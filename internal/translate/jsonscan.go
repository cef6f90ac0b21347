package translate

import "regexp"

// firstJSONObject returns the first balanced {...} substring of text, or ""
// when no balanced object exists. Braces inside JSON strings are ignored.
func firstJSONObject(text string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// stripTrailingCommas removes commas immediately preceding a closing brace
// or bracket, a common model output defect.
func stripTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}
