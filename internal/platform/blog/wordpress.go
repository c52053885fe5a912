// Package blog reads posts from the wordpress.com REST API, which hosts the
// marketing site's blog content.
package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
)

const baseURL = "https://public-api.wordpress.com/rest/v1.1/sites"

// ListParams mirror the query options the blog pages offer: free-text
// search, category filter and page/number pagination.
type ListParams struct {
	Number   int    `url:"number,omitempty"`
	Page     int    `url:"page,omitempty"`
	Search   string `url:"search,omitempty"`
	Category string `url:"category,omitempty"`
	Fields   string `url:"fields,omitempty"`
	OrderBy  string `url:"order_by,omitempty"`
	Order    string `url:"order,omitempty"`
}

type Post struct {
	ID            int64             `json:"ID"`
	Date          time.Time         `json:"date"`
	Title         string            `json:"title"`
	Excerpt       string            `json:"excerpt"`
	Content       string            `json:"content"`
	Slug          string            `json:"slug"`
	FeaturedImage string            `json:"featured_image"`
	Categories    map[string]Category `json:"categories"`
}

// Category is the slim shape wordpress.com returns inline on posts.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PostList struct {
	Found int    `json:"found"`
	Posts []Post `json:"posts"`
}

type Client struct {
	blogID string
	http   *http.Client
}

func NewClient(blogID string) *Client {
	return &Client{
		blogID: blogID,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, params any, out any) error {
	u := fmt.Sprintf("%s/%s/%s", baseURL, url.PathEscape(c.blogID), path)
	if params != nil {
		vals, err := query.Values(params)
		if err != nil {
			return fmt.Errorf("encode query: %w", err)
		}
		u += "?" + vals.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("wordpress request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("wordpress responded %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// List fetches a page of posts.
func (c *Client) List(ctx context.Context, params ListParams) (*PostList, error) {
	if params.Number <= 0 || params.Number > 100 {
		params.Number = 10
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	var list PostList
	if err := c.get(ctx, "posts/", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetBySlug fetches a single post.
func (c *Client) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	var post Post
	if err := c.get(ctx, "posts/slug:"+url.PathEscape(slug), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
