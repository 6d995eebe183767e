package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/comments"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/films"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/likes"
)

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

func jsonResponse(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestLogin(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "totoro_fan", req["username"])
		jsonResponse(t, w, http.StatusOK, map[string]string{"token": "signed-token"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	token, err := api.Login(context.Background(), "totoro_fan", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusBadRequest, map[string]string{"error": "invalid credentials"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	_, err := api.Login(context.Background(), "totoro_fan", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestBearerTokenAttached(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		jsonResponse(t, w, http.StatusOK, likes.LikeCount{FilmID: "film-1", Count: 1})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL+"/api", WithTokenSource(staticToken("my-token")))
	_, err := api.Like(context.Background(), "film-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer my-token", gotAuth)
}

func TestUnauthorizedHookFires(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusUnauthorized, map[string]string{"error": "not authorized"})
	}))
	defer srv.Close()

	loggedOut := false
	api := NewAPI(srv.URL+"/api",
		WithTokenSource(staticToken("stale-token")),
		WithUnauthorizedHandler(func() { loggedOut = true }))

	_, err := api.Like(context.Background(), "film-1")
	require.Error(t, err)
	assert.True(t, loggedOut, "a 401 must trigger the logout hook")
}

func TestGetComments(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/comments/film-1", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		jsonResponse(t, w, http.StatusOK, comments.CommentPage{
			Comments:    []comments.Comment{{ID: 4, Body: "page two"}},
			TotalPages:  3,
			CurrentPage: 2,
			HasMore:     true,
		})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	page := api.GetComments(context.Background(), "film-1", 2)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasMore)
}

func TestGetComments_SentinelOnServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	page := api.GetComments(context.Background(), "film-1", 3)
	require.NotNil(t, page)
	assert.Empty(t, page.Comments)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)
	assert.False(t, page.HasMore)
}

func TestGetComments_SentinelOnNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	api := NewAPI(srv.URL + "/api")
	page := api.GetComments(context.Background(), "film-1", 1)
	require.NotNil(t, page)
	assert.Empty(t, page.Comments)
	assert.Equal(t, 1, page.TotalPages)
}

func TestGetLikes_DefaultsToZeroOnFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	assert.Zero(t, api.GetLikes(context.Background(), "film-1"))
}

func TestGetLikes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/likes/film-1", r.URL.Path)
		jsonResponse(t, w, http.StatusOK, likes.LikeCount{FilmID: "film-1", Count: 27})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	assert.Equal(t, int64(27), api.GetLikes(context.Background(), "film-1"))
}

func TestGetFilms_EmptyOnFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	got := api.GetFilms(context.Background(), nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetFilms_PassesQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "totoro", r.URL.Query().Get("search"))
		jsonResponse(t, w, http.StatusOK, []films.Film{{ID: "f1", Title: "My Neighbor Totoro"}})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	got := api.GetFilms(context.Background(), url.Values{"search": {"totoro"}})
	require.Len(t, got, 1)
	assert.Equal(t, "My Neighbor Totoro", got[0].Title)
}

func TestGetFilm_NilOnNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusNotFound, map[string]string{"error": "film not found"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	assert.Nil(t, api.GetFilm(context.Background(), "missing"))
}

func TestSubmitComment_Commit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/comments/film-1", r.URL.Path)
		var req comments.PostCommentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		jsonResponse(t, w, http.StatusCreated, comments.Comment{
			ID:        21,
			FilmID:    "film-1",
			Body:      req.Comment,
			Author:    &comments.Author{ID: 42, Username: "totoro_fan"},
			CreatedAt: time.Now(),
		})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	feed := NewFeed()
	tempID, err := SubmitComment(context.Background(), api, feed, "film-1", "totoro_fan", "loved it")
	require.NoError(t, err)
	require.NotEmpty(t, tempID)

	entries := feed.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Provisional, "the server's comment replaced the provisional entry")
	assert.Equal(t, 21, entries[0].Comment.ID)
	assert.Equal(t, "loved it", entries[0].Comment.Body)
}

func TestSubmitComment_Rollback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	feed := NewFeed()
	_, err := feed.Submit("totoro_fan", "already here")
	require.NoError(t, err)

	tempID, err := SubmitComment(context.Background(), api, feed, "film-1", "totoro_fan", "doomed")
	require.Error(t, err)
	require.NotEmpty(t, tempID)

	// The failed submission vanished; the unrelated pending entry survives.
	entries := feed.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "already here", entries[0].Comment.Body)
}

func TestSubmitComment_EmptyTextNeverSent(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/api")
	feed := NewFeed()
	_, err := SubmitComment(context.Background(), api, feed, "film-1", "totoro_fan", "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)
	assert.False(t, called, "nothing goes over the wire for empty text")
	assert.Zero(t, feed.Len())
}
