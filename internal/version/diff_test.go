// AngelaMos | 2026
// diff_test.go

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/slideview/internal/core"
)

func strPtr(s string) *string { return &s }

func TestChanged(t *testing.T) {
	base := Snapshot{
		Title:    strPtr("Intro"),
		Content:  "# Hello",
		Notes:    strPtr("say hi"),
		Metadata: core.JSONMap{"layout": "title", "bg": "#fff"},
	}

	tests := []struct {
		name string
		next Snapshot
		want bool
	}{
		{
			name: "identical",
			next: Snapshot{
				Title:    strPtr("Intro"),
				Content:  "# Hello",
				Notes:    strPtr("say hi"),
				Metadata: core.JSONMap{"bg": "#fff", "layout": "title"},
			},
			want: false,
		},
		{
			name: "content",
			next: Snapshot{Title: base.Title, Content: "# Bye", Notes: base.Notes, Metadata: base.Metadata},
			want: true,
		},
		{
			name: "title",
			next: Snapshot{Title: strPtr("Outro"), Content: base.Content, Notes: base.Notes, Metadata: base.Metadata},
			want: true,
		},
		{
			name: "notes cleared",
			next: Snapshot{Title: base.Title, Content: base.Content, Metadata: base.Metadata},
			want: true,
		},
		{
			name: "metadata value",
			next: Snapshot{
				Title: base.Title, Content: base.Content, Notes: base.Notes,
				Metadata: core.JSONMap{"layout": "two-column", "bg": "#fff"},
			},
			want: true,
		},
		{
			name: "metadata dropped",
			next: Snapshot{Title: base.Title, Content: base.Content, Notes: base.Notes},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Changed(base, tt.next))
		})
	}
}

func TestChangedTreatsEmptyAsNil(t *testing.T) {
	a := Snapshot{Content: "x"}
	b := Snapshot{Title: strPtr(""), Content: "x", Notes: strPtr(""), Metadata: core.JSONMap{}}

	assert.False(t, Changed(a, b))
	assert.False(t, Changed(b, a))
}
