package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rentmatch/rentmatch-api/internal/http/response"
	"github.com/rentmatch/rentmatch-api/internal/platform/blog"
	"github.com/rentmatch/rentmatch-api/pkg/logger"
)

// ListBlogPosts handles GET /api/blog/posts with search, category filter and
// pagination, proxying the WordPress-hosted blog.
func (h *Handlers) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	if h.blog == nil {
		response.Fail(w, http.StatusServiceUnavailable, "Blog is not configured")
		return
	}

	q := r.URL.Query()
	params := blog.ListParams{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Fields:   "ID,date,title,excerpt,slug,featured_image,categories",
		OrderBy:  "date",
		Order:    "DESC",
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil {
		params.Number = v
	}

	list, err := h.blog.List(r.Context(), params)
	if err != nil {
		logger.ErrorContext(r.Context(), "blog list fetch failed", "error", err)
		response.Fail(w, http.StatusBadGateway, "Could not load blog posts")
		return
	}

	response.OK(w, "", list)
}

// GetBlogPost handles GET /api/blog/posts/{slug}.
func (h *Handlers) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	if h.blog == nil {
		response.Fail(w, http.StatusServiceUnavailable, "Blog is not configured")
		return
	}

	slug := chi.URLParam(r, "slug")
	post, err := h.blog.GetBySlug(r.Context(), slug)
	if err != nil {
		logger.ErrorContext(r.Context(), "blog post fetch failed", "slug", slug, "error", err)
		response.Fail(w, http.StatusNotFound, "Post not found")
		return
	}

	response.OK(w, "", post)
}
