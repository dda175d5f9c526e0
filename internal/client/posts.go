package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

type CreatePostInput struct {
	Body   string
	Images [][]byte // bytes crudos; el SDK las codifica base64
}

func (c *Client) CreatePost(ctx context.Context, in CreatePostInput) (Post, error) {
	body := struct {
		Body   string   `json:"body"`
		Images []string `json:"images"`
	}{Body: in.Body}
	for _, img := range in.Images {
		body.Images = append(body.Images, base64.StdEncoding.EncodeToString(img))
	}

	var out Post
	err := c.http.DoJSON(ctx, http.MethodPost, "/posts", c.headers(), body, &out)
	return out, err
}

func (c *Client) GetPost(ctx context.Context, postID string) (Post, error) {
	var out Post
	err := c.http.DoJSON(ctx, http.MethodGet, "/posts/"+postID, c.headers(), nil, &out)
	return out, err
}

// ListPosts pagina por offset; limit<=0 usa el default del server.
func (c *Client) ListPosts(ctx context.Context, offset, limit int) ([]Post, error) {
	q := url.Values{}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/posts"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var raw json.RawMessage
	if err := c.http.DoJSON(ctx, http.MethodGet, path, c.headers(), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Post](raw)
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.http.DoJSON(ctx, http.MethodDelete, "/posts/"+postID, c.headers(), nil, nil)
}

type LikeOutcome struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

func (c *Client) ToggleLike(ctx context.Context, postID string) (LikeOutcome, error) {
	var out LikeOutcome
	err := c.http.DoJSON(ctx, http.MethodPost, "/posts/"+postID+"/like", c.headers(), nil, &out)
	return out, err
}

func (c *Client) SavePost(ctx context.Context, postID string) error {
	return c.http.DoJSON(ctx, http.MethodPost, "/posts/"+postID+"/save", c.headers(), nil, nil)
}

func (c *Client) UnsavePost(ctx context.Context, postID string) error {
	return c.http.DoJSON(ctx, http.MethodDelete, "/posts/"+postID+"/save", c.headers(), nil, nil)
}

func (c *Client) CreateComment(ctx context.Context, postID, body string) (Comment, error) {
	in := struct {
		Body string `json:"body"`
	}{Body: body}
	var out Comment
	err := c.http.DoJSON(ctx, http.MethodPost, "/posts/"+postID+"/comments", c.headers(), in, &out)
	return out, err
}

func (c *Client) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	var raw json.RawMessage
	if err := c.http.DoJSON(ctx, http.MethodGet, "/posts/"+postID+"/comments", c.headers(), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Comment](raw)
}

func (c *Client) Follow(ctx context.Context, userID string) error {
	return c.http.DoJSON(ctx, http.MethodPost, "/users/"+userID+"/follow", c.headers(), nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID string) error {
	return c.http.DoJSON(ctx, http.MethodDelete, "/users/"+userID+"/follow", c.headers(), nil, nil)
}
