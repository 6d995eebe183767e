package films

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/auth"
)

// FilmHandler handles HTTP requests for the film catalog.
type FilmHandler struct {
	service FilmService
}

// NewFilmHandler creates a new FilmHandler.
func NewFilmHandler(service FilmService) *FilmHandler {
	return &FilmHandler{service: service}
}

// RegisterRoutes registers the film API routes. The static paths must be
// registered before the {id} wildcard so "directors" is not read as an id.
func (h *FilmHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.listFilms)
	router.Get("/directors", h.listDirectors)
	router.Get("/years", h.listYears)
	router.Get("/{id}", h.getFilm)
}

// listFilms godoc
// @Summary List films
// @Description Lists the catalog, optionally filtered by title search,
// @Description director or release year, and sorted by a whitelisted column.
// @Tags Films
// @Produce json
// @Param search query string false "Case-insensitive title substring"
// @Param director query string false "Exact director name"
// @Param year query string false "Release year"
// @Param sort query string false "Sort column" Enums(title, director, release_date, rt_score, running_time)
// @Param order query string false "Sort order" Enums(asc, desc)
// @Success 200 {array} films.Film
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/films [get]
func (h *FilmHandler) listFilms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.service.List(r.Context(), ListQuery{
		Search:   q.Get("search"),
		Director: q.Get("director"),
		Year:     q.Get("year"),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
	})
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, list)
}

// getFilm godoc
// @Summary Get a single film
// @Tags Films
// @Produce json
// @Param id path string true "Film ID"
// @Success 200 {object} films.Film
// @Failure 404 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/films/{id} [get]
func (h *FilmHandler) getFilm(w http.ResponseWriter, r *http.Request) {
	film, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, film)
}

// listDirectors godoc
// @Summary List distinct directors
// @Tags Films
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/films/directors [get]
func (h *FilmHandler) listDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := h.service.Directors(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, directors)
}

// listYears godoc
// @Summary List distinct release years, newest first
// @Tags Films
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/films/years [get]
func (h *FilmHandler) listYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.Years(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, years)
}
