package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fencePattern matches markdown code fences with an optional language tag.
// Captures: (1) language, (2) fenced content.
var fencePattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// ExtractJSON pulls a JSON document out of raw model output. Models wrap
// structured answers in markdown fences, prepend prose, or trail
// explanations; callers get back just the JSON text.
// Priority:
//  1. content of a ```json or untagged ``` fence
//  2. first balanced {...} or [...] in the raw text
func ExtractJSON(response string) (string, error) {
	if doc, ok := fromFence(response); ok {
		return doc, nil
	}

	if doc, ok := fromRawText(response); ok {
		return doc, nil
	}

	return "", fmt.Errorf("no valid JSON object found in response")
}

// fromFence scans markdown code fences for a JSON document.
func fromFence(response string) (string, bool) {
	for _, match := range fencePattern.FindAllStringSubmatch(response, -1) {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		body := strings.TrimSpace(match[2])

		// Accept json-tagged or untagged fences, skip other languages
		if lang != "" && lang != "json" {
			continue
		}

		if !strings.HasPrefix(body, "{") && !strings.HasPrefix(body, "[") {
			continue
		}
		if isValidJSON(body) {
			return body, true
		}
	}

	return "", false
}

// fromRawText locates the first balanced JSON object or array in
// unfenced text.
func fromRawText(response string) (string, bool) {
	objAt := strings.Index(response, "{")
	arrAt := strings.Index(response, "[")

	start := -1
	closer := byte('}')
	if objAt >= 0 && (arrAt < 0 || objAt < arrAt) {
		start = objAt
	} else if arrAt >= 0 {
		start = arrAt
		closer = ']'
	}

	if start < 0 {
		return "", false
	}

	doc := scanBalanced(response[start:], closer)
	if doc != "" && isValidJSON(doc) {
		return doc, true
	}

	return "", false
}

// scanBalanced walks the text from its opening bracket to the matching
// close bracket, tracking nesting depth. Brackets inside JSON strings
// (including escaped quotes) do not count.
func scanBalanced(s string, closer byte) string {
	if len(s) == 0 {
		return ""
	}

	opener := s[0]
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == opener {
			depth++
		} else if c == closer {
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	// unmatched brackets
	return ""
}

func isValidJSON(s string) bool {
	var raw json.RawMessage
	return json.Unmarshal([]byte(s), &raw) == nil
}

// ExtractJSONAs extracts JSON from model output and unmarshals it into T.
func ExtractJSONAs[T any](response string) (T, error) {
	var result T

	doc, err := ExtractJSON(response)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return result, nil
}
