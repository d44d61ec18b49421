package handlers

import (
	"net/http"

	"github.com/dropDatabas3/castingagency/internal/http/helpers"
	"github.com/dropDatabas3/castingagency/internal/store/core"
)

const resMovies = "movies"

type movieDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

func toMovieDTO(m core.Movie) movieDTO {
	return movieDTO{ID: m.ID, Title: m.Title, ReleaseDate: helpers.FormatDate(m.ReleaseDate)}
}

type movieBody struct {
	Title       *string `json:"title"`
	ReleaseDate *string `json:"release_date"`
}

func (b movieBody) record() (core.Movie, error) {
	title, err := requiredString("title", b.Title)
	if err != nil {
		return core.Movie{}, err
	}
	rd, err := requiredDate("release_date", b.ReleaseDate)
	if err != nil {
		return core.Movie{}, err
	}
	return core.Movie{Title: title, ReleaseDate: rd}, nil
}

type MoviesHandler struct {
	repo core.Repository[core.Movie]
}

func NewMoviesHandler(repo core.Repository[core.Movie]) *MoviesHandler {
	return &MoviesHandler{repo: repo}
}

func (h *MoviesHandler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.repo.List(r.Context())
	if err != nil {
		fail(w, r, resMovies, err)
		return
	}
	out := make([]movieDTO, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieDTO(m))
	}
	writeList(w, resMovies, out)
}

func (h *MoviesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	m, err := h.repo.Get(r.Context(), id)
	if err != nil {
		fail(w, r, resMovies, err)
		return
	}
	writeList(w, resMovies, []movieDTO{toMovieDTO(m)})
}

func (h *MoviesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body movieBody
	if err := helpers.ReadJSON(w, r, &body); err != nil {
		fail(w, r, resMovies, err)
		return
	}
	rec, err := body.record()
	if err != nil {
		fail(w, r, resMovies, err)
		return
	}
	m, err := h.repo.Create(r.Context(), rec)
	if err != nil {
		fail(w, r, resMovies, err)
		return
	}
	writeMutation(w, resMovies, "created", m.ID, []movieDTO{toMovieDTO(m)})
}

func (h *MoviesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	var body movieBody
	if err := helpers.ReadJSON(w, r, &body); err != nil {
		fail(w, r, resMovies, err)
		return
	}
	rec, err := body.record()
	if err != nil {
		fail(w, r, resMovies, err)
		return
	}
	m, err := h.repo.Update(r.Context(), id, rec)
	if err != nil {
		fail(w, r, resMovies, err)
		return
	}
	writeMutation(w, resMovies, "modified", id, []movieDTO{toMovieDTO(m)})
}

func (h *MoviesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		fail(w, r, resMovies, err)
		return
	}
	writeMutation(w, resMovies, "deleted", id, []movieDTO{})
}
