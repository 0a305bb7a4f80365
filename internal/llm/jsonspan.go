package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeObject slices the first '{' through the last '}' out of a generation
// response and decodes that span into v. Returns a stage-tagged ParseError
// when no such span exists or the span does not decode.
func DecodeObject(stage, response string, v interface{}) error {
	span, err := sliceSpan(response, '{', '}')
	if err != nil {
		return &ParseError{Stage: stage, Cause: err}
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return &ParseError{Stage: stage, Cause: err}
	}
	return nil
}

// DecodeArray is DecodeObject for a top-level JSON array: first '[' through
// the last ']'.
func DecodeArray(stage, response string, v interface{}) error {
	span, err := sliceSpan(response, '[', ']')
	if err != nil {
		return &ParseError{Stage: stage, Cause: err}
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return &ParseError{Stage: stage, Cause: err}
	}
	return nil
}

func sliceSpan(s string, open, close byte) (string, error) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no %c...%c span in response", open, close)
	}
	return s[start : end+1], nil
}
