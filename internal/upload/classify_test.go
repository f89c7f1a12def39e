package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_SuccessShape(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind Kind
		id   string
	}{
		{"error false with id", `{"error":false,"videos_id":42}`, KindStructuredSuccess, "42"},
		{"error true with id", `{"error":true,"videos_id":42}`, KindStructuredFailure, ""},
		{"error false without id", `{"error":false}`, KindStructuredFailure, ""},
		{"error true without id", `{"error":true,"msg":"denied"}`, KindStructuredFailure, ""},
		{"error field absent", `{"videos_id":42}`, KindStructuredFailure, ""},
		{"error as string", `{"error":"false","videos_id":42}`, KindStructuredFailure, ""},
		{"zero id", `{"error":false,"videos_id":0}`, KindStructuredFailure, ""},
		{"empty string id", `{"error":false,"videos_id":""}`, KindStructuredFailure, ""},
		{"null id", `{"error":false,"videos_id":null}`, KindStructuredFailure, ""},
		{"string id", `{"error":false,"videos_id":"abc1"}`, KindStructuredSuccess, "abc1"},
		{"leading whitespace", "\n  {\"error\": false, \"videos_id\": 7}", KindStructuredSuccess, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.body)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.id, v.ServerID)
			assert.Equal(t, tt.kind == KindStructuredSuccess, v.Success())
		})
	}
}

func TestClassify_NonJSON(t *testing.T) {
	v := Classify("  Not Found\n")
	assert.Equal(t, KindNonJSON, v.Kind)
	assert.Equal(t, "Non-JSON response: Not Found", v.Message())

	v = Classify("<html>\r\n<body>502</body>\n</html>")
	assert.Equal(t, KindNonJSON, v.Kind)
	assert.NotContains(t, v.Message(), "\n")
	assert.NotContains(t, v.Message(), "\r")

	assert.Equal(t, KindNonJSON, Classify("").Kind)
}

func TestClassify_InvalidJSON(t *testing.T) {
	v := Classify("{\"error\":\n false,\n")
	assert.Equal(t, KindInvalidJSON, v.Kind)
	assert.Equal(t, `Invalid JSON response: {"error":  false,`, v.Message())

	assert.Equal(t, KindInvalidJSON, Classify(`[1,2`).Kind)
	assert.Equal(t, KindInvalidJSON, Classify(`{"a":1} trailing`).Kind)
}

func TestClassify_ArrayIsStructuredFailure(t *testing.T) {
	v := Classify(`[ {"error": false, "videos_id": 3} ]`)
	assert.Equal(t, KindStructuredFailure, v.Kind)
	assert.Equal(t, `Server error: [{"error":false,"videos_id":3}]`, v.Message())
}

func TestVerdict_MessageEmptyOnSuccess(t *testing.T) {
	assert.Empty(t, Classify(`{"error":false,"videos_id":1}`).Message())
}

func TestKind_MarshalText(t *testing.T) {
	b, err := KindInvalidJSON.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "invalid_json", string(b))
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "video/mp4", ContentType("/x/clip.MP4"))
	assert.Equal(t, "video/x-matroska", ContentType("a.mkv"))
	assert.Equal(t, FallbackContentType, ContentType("notes.txt"))
	assert.Equal(t, FallbackContentType, ContentType("noext"))
	assert.True(t, IsVideo("b.webm"))
	assert.False(t, IsVideo("b.srt"))
}
