package blog_test

import (
	"encoding/json"
	"testing"

	"github.com/rentmatch/rentmatch-api/internal/platform/blog"
)

func TestPostDecodesInlineCategories(t *testing.T) {
	payload := `{
		"ID": 42,
		"title": "Finding a room in Utrecht",
		"slug": "finding-a-room-in-utrecht",
		"categories": {
			"Guides": {"name": "Guides", "slug": "guides"},
			"Cities": {"name": "Cities", "slug": "cities"}
		}
	}`

	var post blog.Post
	if err := json.Unmarshal([]byte(payload), &post); err != nil {
		t.Fatal(err)
	}
	if post.ID != 42 || post.Slug != "finding-a-room-in-utrecht" {
		t.Fatalf("post = %+v", post)
	}
	if len(post.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(post.Categories))
	}
	if got := post.Categories["Guides"]; got != (blog.Category{Name: "Guides", Slug: "guides"}) {
		t.Errorf("Guides category = %+v", got)
	}
}
