package upload

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind is the closed set of response variants.
type Kind int

const (
	KindNonJSON           Kind = iota // Body does not start with '{' or '['.
	KindInvalidJSON                   // JSON-shaped but does not parse.
	KindStructuredFailure             // Parsed, but lacks the success shape.
	KindStructuredSuccess             // error == false and a truthy videos_id.
)

func (k Kind) String() string {
	switch k {
	case KindNonJSON:
		return "non_json"
	case KindInvalidJSON:
		return "invalid_json"
	case KindStructuredFailure:
		return "structured_failure"
	case KindStructuredSuccess:
		return "structured_success"
	}
	return "unknown"
}

// MarshalText lets Kind appear by name in diagnostic dumps.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Field names of the success shape.
const (
	errorField = "error"
	idField    = "videos_id"
)

// Verdict is the classification of one response body.
type Verdict struct {
	Kind     Kind
	ServerID string // Set only for KindStructuredSuccess.
	Context  string // Flattened body, or compact JSON for structured kinds.
}

// Success reports whether the verdict is a structured success.
func (v Verdict) Success() bool { return v.Kind == KindStructuredSuccess }

// Message is the single-line failure description; empty on success.
func (v Verdict) Message() string {
	switch v.Kind {
	case KindNonJSON:
		return "Non-JSON response: " + v.Context
	case KindInvalidJSON:
		return "Invalid JSON response: " + v.Context
	case KindStructuredFailure:
		return "Server error: " + v.Context
	}
	return ""
}

// Classify decides success or failure from a raw response body. The HTTP
// status is not an input: a 200 with a text body is a failure.
//
// Success requires both an explicit boolean error=false and a truthy
// videos_id. Everything else is a failure.
func Classify(body string) Verdict {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return Verdict{Kind: KindNonJSON, Context: Flatten(trimmed)}
	}
	if !json.Valid([]byte(trimmed)) {
		return Verdict{Kind: KindInvalidJSON, Context: Flatten(trimmed)}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(trimmed)); err != nil {
		return Verdict{Kind: KindInvalidJSON, Context: Flatten(trimmed)}
	}
	failure := Verdict{Kind: KindStructuredFailure, Context: compact.String()}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		// Arrays and other non-object JSON.
		return failure
	}

	flag, ok := obj[errorField].(bool)
	if !ok || flag {
		return failure
	}
	id, ok := truthyID(obj[idField])
	if !ok {
		return failure
	}
	return Verdict{Kind: KindStructuredSuccess, ServerID: id, Context: compact.String()}
}

// truthyID renders a non-empty string or non-zero number as an identifier.
func truthyID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		id = strings.TrimSpace(id)
		return id, id != ""
	case json.Number:
		f, err := id.Float64()
		if err != nil || f == 0 {
			return "", false
		}
		return id.String(), true
	}
	return "", false
}

var flattener = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Flatten replaces line breaks with spaces so free-form server text cannot
// break the line-oriented log and stdout formats.
func Flatten(s string) string { return flattener.Replace(s) }
