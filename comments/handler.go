package comments

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/apperror"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/auth"
)

// CommentHandler handles HTTP requests for the comment feed.
type CommentHandler struct {
	service CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// RegisterRoutes registers the comment API routes. Both routes run behind the
// optional auth middleware: reads ignore identity, writes attribute the
// comment when one is present.
func (h *CommentHandler) RegisterRoutes(router chi.Router) {
	router.Get("/{filmId}", h.listComments)
	router.Post("/{filmId}", h.postComment)
}

// listComments godoc
// @Summary List comments for a film
// @Description Returns one page of a film's comments, newest first.
// @Tags Comments
// @Produce json
// @Param filmId path string true "Film ID"
// @Param page query int false "1-indexed page" default(1)
// @Param limit query int false "Page size" default(5)
// @Success 200 {object} comments.CommentPage
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/comments/{filmId} [get]
func (h *CommentHandler) listComments(w http.ResponseWriter, r *http.Request) {
	filmID := chi.URLParam(r, "filmId")

	// Unparseable paging params fall back to defaults rather than erroring;
	// the feed endpoint never rejects a read.
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	pageResp, err := h.service.List(r.Context(), filmID, page, limit)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, pageResp)
}

// postComment godoc
// @Summary Post a comment on a film
// @Description Persists a comment. Authenticated callers are recorded as the
// @Description author; anonymous submissions are accepted.
// @Tags Comments
// @Accept json
// @Produce json
// @Param filmId path string true "Film ID"
// @Param commentBody body comments.PostCommentRequest true "Comment text"
// @Success 201 {object} comments.Comment
// @Failure 400 {object} apperror.ErrorResponse "Empty comment text"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/comments/{filmId} [post]
func (h *CommentHandler) postComment(w http.ResponseWriter, r *http.Request) {
	filmID := chi.URLParam(r, "filmId")

	var req PostCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	// The optional auth middleware attaches an identity when a valid token
	// was presented; otherwise the comment stays anonymous.
	var authorID *int
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		authorID = &identity.UserID
	}

	comment, err := h.service.Post(r.Context(), filmID, authorID, req.Comment)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusCreated, comment)
}
