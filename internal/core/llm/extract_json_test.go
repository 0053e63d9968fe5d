package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "pure_array",
			input: `[{"name":"banana"}]`,
			want:  `[{"name":"banana"}]`,
		},
		{
			name:  "array_with_preamble",
			input: `Here is the result: [{"name":"banana"}]`,
			want:  `[{"name":"banana"}]`,
		},
		{
			name:  "markdown_wrapped_array",
			input: "```json\n[{\"name\":\"banana\"}]\n```",
			want:  `[{"name":"banana"}]`,
		},
		{
			name:  "object_when_no_array",
			input: `Here: {"name":"banana"} done.`,
			want:  `{"name":"banana"}`,
		},
		{
			name:  "no_json",
			input: "just some text",
			want:  "just some text",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
