package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapTextWithWideRunes(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "pure wide runes",
			text:  "你好世界",
			width: 4,
			want:  []string{"你好", "世界"},
		},
		{
			name:  "mix wide and ascii",
			text:  "你好 hello",
			width: 4,
			want:  []string{"你好", "hell", "o"},
		},
		{
			name:  "word wrap",
			text:  "Do the next thing",
			width: 8,
			want:  []string{"Do the", "next", "thing"},
		},
		{
			name:  "keeps blank lines",
			text:  "a\n\nb",
			width: 4,
			want:  []string{"a", "", "b"},
		},
		{
			name:  "zero width passes through",
			text:  "anything goes",
			width: 0,
			want:  []string{"anything goes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, wrapText(tt.text, tt.width))
		})
	}
}
