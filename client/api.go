// Package client is the Go counterpart of the web frontend's data layer: a
// REST client with durable auth state and the optimistic comment-submission
// protocol. Expected read failures (network errors, 4xx on fetches) collapse
// to sentinel defaults so calling code does not branch on network failure
// everywhere; only user-initiated actions (submit, like, login) surface
// errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/comments"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/films"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/likes"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// *Session implements it; requests go out unauthenticated when no token is
// available.
type TokenSource interface {
	Token() (string, bool)
}

// API is a client for the catalog's REST surface.
type API struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	// onUnauthorized is invoked when the server rejects our token with a
	// 401, the signal for client-side logout.
	onUnauthorized func()
}

// Option configures an API client.
type Option func(*API)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *API) { a.http = hc }
}

// WithTokenSource attaches a bearer token source.
func WithTokenSource(ts TokenSource) Option {
	return func(a *API) { a.tokens = ts }
}

// WithUnauthorizedHandler registers the hook called on any 401 response.
func WithUnauthorizedHandler(fn func()) Option {
	return func(a *API) { a.onUnauthorized = fn }
}

// NewAPI creates an API client rooted at baseURL (e.g. "http://localhost:8080/api").
func NewAPI(baseURL string, opts ...Option) *API {
	a := &API{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// apiError is a failure reported by the server with a decoded body.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// do performs one request and decodes a JSON response into out (when out is
// non-nil). A 401 triggers the unauthorized hook before the error is
// returned.
func (a *API) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.tokens != nil {
		if token, ok := a.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && a.onUnauthorized != nil {
			a.onUnauthorized()
		}
		apiErr := &apiError{Status: resp.StatusCode}
		var errBody struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
			if errBody.Error != "" {
				apiErr.Message = errBody.Error
			} else {
				apiErr.Message = errBody.Message
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Register creates a new account. User-initiated, so failures are returned.
func (a *API) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return a.do(ctx, http.MethodPost, "/auth/register", body, nil)
}

// Login exchanges credentials for a bearer token.
func (a *API) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := a.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// GetComments fetches one page of a film's comment feed. On any failure it
// returns the sentinel default the frontend uses: an empty page that claims
// one total page and no more to load.
func (a *API) GetComments(ctx context.Context, filmID string, page int) *comments.CommentPage {
	if page < 1 {
		page = 1
	}
	path := fmt.Sprintf("/comments/%s?page=%d&limit=%d", url.PathEscape(filmID), page, comments.DefaultPageSize)
	var resp comments.CommentPage
	if err := a.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return &comments.CommentPage{Comments: []comments.Comment{}, TotalPages: 1, CurrentPage: page, HasMore: false}
	}
	return &resp
}

// PostComment submits a comment. User-initiated, so failures are returned.
func (a *API) PostComment(ctx context.Context, filmID, text string) (*comments.Comment, error) {
	body := comments.PostCommentRequest{Comment: text}
	var resp comments.Comment
	if err := a.do(ctx, http.MethodPost, "/comments/"+url.PathEscape(filmID), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetLikes fetches a film's like count; absence and failure both read as zero.
func (a *API) GetLikes(ctx context.Context, filmID string) int64 {
	var resp likes.LikeCount
	if err := a.do(ctx, http.MethodGet, "/likes/"+url.PathEscape(filmID), nil, &resp); err != nil {
		return 0
	}
	return resp.Count
}

// Like increments a film's like counter and returns the updated count.
// Requires authentication; a 401 additionally fires the unauthorized hook.
func (a *API) Like(ctx context.Context, filmID string) (*likes.LikeCount, error) {
	var resp likes.LikeCount
	if err := a.do(ctx, http.MethodPost, "/likes/"+url.PathEscape(filmID)+"/like", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFilms lists the catalog; failures read as an empty catalog.
func (a *API) GetFilms(ctx context.Context, query url.Values) []films.Film {
	path := "/films"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var resp []films.Film
	if err := a.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return []films.Film{}
	}
	return resp
}

// GetFilm fetches one film; failures (including 404) read as nil.
func (a *API) GetFilm(ctx context.Context, id string) *films.Film {
	var resp films.Film
	if err := a.do(ctx, http.MethodGet, "/films/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil
	}
	return &resp
}
