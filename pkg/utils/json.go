package utils

import (
	"encoding/json"
	"strings"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
)

// StripCodeFences removes markdown code-block markers around a response.
// Oracle output is requested as bare JSON but models frequently wrap it in
// ```json fences anyway.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)

	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+len("```json"):]
	} else if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+len("```"):]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

// ExtractJSONObject locates and parses the first complete JSON object in
// free-form oracle output. It tolerates fenced code blocks and surrounding
// prose. Returns an explicit error instead of panicking or guessing:
// errors.OracleEmptyResponse when no content remains after cleaning, and
// errors.OracleMalformedJSON when content is present but no valid object
// can be extracted. The raw content is attached to the error fields for
// offline inspection.
func ExtractJSONObject(raw string) (map[string]interface{}, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, errors.WithFields(
			errors.New(errors.OracleEmptyResponse, "no content after cleaning"),
			errors.Fields{"raw_response": raw},
		)
	}

	candidate, ok := firstJSONObject(cleaned)
	if !ok {
		return nil, errors.WithFields(
			errors.New(errors.OracleMalformedJSON, "no JSON object found in response"),
			errors.Fields{"raw_response": raw},
		)
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.OracleMalformedJSON, "failed to parse response as JSON"),
			errors.Fields{"raw_response": raw},
		)
	}
	return result, nil
}

// DecodeJSONObject extracts the first JSON object from raw oracle output and
// decodes it into the given tagged struct. Unknown fields are ignored;
// missing fields are left at their zero values for the caller to validate.
func DecodeJSONObject(raw string, target interface{}) error {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return errors.WithFields(
			errors.New(errors.OracleEmptyResponse, "no content after cleaning"),
			errors.Fields{"raw_response": raw},
		)
	}

	candidate, ok := firstJSONObject(cleaned)
	if !ok {
		return errors.WithFields(
			errors.New(errors.OracleMalformedJSON, "no JSON object found in response"),
			errors.Fields{"raw_response": raw},
		)
	}

	if err := json.Unmarshal([]byte(candidate), target); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.OracleMalformedJSON, "failed to decode response"),
			errors.Fields{"raw_response": raw},
		)
	}
	return nil
}

// firstJSONObject scans for the first balanced top-level {...} region,
// respecting string literals and escapes.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// IntSlice converts a decoded JSON array (which arrives as []interface{}
// with float64 members) into a slice of ints. Non-numeric members are
// rejected.
func IntSlice(value interface{}) ([]int, bool) {
	items, ok := value.([]interface{})
	if !ok {
		return nil, false
	}
	result := make([]int, 0, len(items))
	for _, item := range items {
		f, ok := item.(float64)
		if !ok {
			return nil, false
		}
		result = append(result, int(f))
	}
	return result, true
}
