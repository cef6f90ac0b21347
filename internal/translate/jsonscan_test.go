package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"with preamble", `Sure! {"a": 1} done`, `{"a": 1}`},
		{"nested braces", `x {"a": {"b": 2}} y`, `{"a": {"b": 2}}`},
		{"brace inside string", `{"a": "}{"}`, `{"a": "}{"}`},
		{"escaped quote inside string", `{"a": "he said \"}\""}`, `{"a": "he said \"}\""}`},
		{"unbalanced", `{"a": 1`, ""},
		{"no object", "plain text", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstJSONObject(tt.in))
		})
	}
}

func TestStripTrailingCommas(t *testing.T) {
	assert.Equal(t, `{"a": [1, 2]}`, stripTrailingCommas(`{"a": [1, 2,],}`))
	assert.Equal(t, `{"a": 1}`, stripTrailingCommas(`{"a": 1}`))
}

func TestParseFilterJSON(t *testing.T) {
	m, ok := parseFilterJSON(`{"person_titles": ["CEO"]}`)
	assert.True(t, ok)
	assert.Contains(t, m, "person_titles")

	m, ok = parseFilterJSON("```json\n{\"person_titles\": [\"CEO\"],}\n```")
	assert.True(t, ok)
	assert.Contains(t, m, "person_titles")

	_, ok = parseFilterJSON("no json here")
	assert.False(t, ok)
}
