package interpret_test

import (
	"testing"

	"github.com/formdesk/formdesk/internal/interpret"
	"github.com/formdesk/formdesk/pkg/models"
)

func TestChatReply(t *testing.T) {
	got, err := interpret.ChatReply("  Here is your link.  ")
	if err != nil {
		t.Fatalf("ChatReply() error = %v", err)
	}
	if got != "Here is your link." {
		t.Errorf("ChatReply() = %q", got)
	}
}

func TestChatReply_Empty(t *testing.T) {
	if _, err := interpret.ChatReply("   \n  "); err != interpret.ErrEmptyResponse {
		t.Errorf("ChatReply() error = %v, want ErrEmptyResponse", err)
	}
}

func TestSearchResults(t *testing.T) {
	one := []models.SearchResultItem{{URL: "https://x", Description: "y"}}

	tests := []struct {
		name string
		raw  string
		want []models.SearchResultItem
	}{
		{
			name: "valid array",
			raw:  `[{"url":"https://x","description":"y"}]`,
			want: one,
		},
		{
			name: "fenced json",
			raw:  "```json\n[{\"url\":\"https://x\",\"description\":\"y\"}]\n```",
			want: one,
		},
		{
			name: "fence without language",
			raw:  "```\n[{\"url\":\"https://x\",\"description\":\"y\"}]\n```",
			want: one,
		},
		{
			name: "backtick-wrapped url",
			raw:  "[{\"url\":\"`https://x`\",\"description\":\"y\"}]",
			want: one,
		},
		{
			name: "not json",
			raw:  "not json",
			want: nil,
		},
		{
			name: "json but not an array",
			raw:  `{"url":"https://x","description":"y"}`,
			want: nil,
		},
		{
			name: "empty url dropped",
			raw:  `[{"url":"","description":"y"}]`,
			want: nil,
		},
		{
			name: "empty description dropped",
			raw:  `[{"url":"https://x","description":""}]`,
			want: nil,
		},
		{
			name: "non-object elements dropped",
			raw:  `["junk", {"url":"https://x","description":"y"}, 42]`,
			want: one,
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interpret.SearchResults(tt.raw)
			if got == nil {
				t.Fatal("SearchResults() returned nil; want a non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SearchResults() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SearchResults()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
