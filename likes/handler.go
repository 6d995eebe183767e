package likes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/auth"
)

// LikeHandler handles HTTP requests for like counters.
type LikeHandler struct {
	service LikeService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(service LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

// RegisterRoutes registers the like API routes. Reading a counter is public;
// incrementing one requires a resolved identity, which main wires in by
// wrapping the POST route with auth.RequireAuth.
func (h *LikeHandler) RegisterRoutes(router chi.Router, requireAuth func(http.Handler) http.Handler) {
	router.Get("/{filmId}", h.getLikes)
	router.With(requireAuth).Post("/{filmId}/like", h.likeFilm)
}

// getLikes godoc
// @Summary Get like count for a film
// @Tags Likes
// @Produce json
// @Param filmId path string true "Film ID"
// @Success 200 {object} likes.LikeCount
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/likes/{filmId} [get]
func (h *LikeHandler) getLikes(w http.ResponseWriter, r *http.Request) {
	lc, err := h.service.Get(r.Context(), chi.URLParam(r, "filmId"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, lc)
}

// likeFilm godoc
// @Summary Like a film
// @Description Atomically increments the film's like counter.
// @Tags Likes
// @Produce json
// @Param filmId path string true "Film ID"
// @Success 200 {object} likes.LikeCount
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid bearer token"
// @Failure 500 {object} apperror.ErrorResponse
// @Security BearerAuth
// @Router /api/likes/{filmId}/like [post]
func (h *LikeHandler) likeFilm(w http.ResponseWriter, r *http.Request) {
	lc, err := h.service.Increment(r.Context(), chi.URLParam(r, "filmId"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, lc)
}
