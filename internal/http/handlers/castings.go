package handlers

import (
	"net/http"

	httperrors "github.com/dropDatabas3/castingagency/internal/http/errors"
	"github.com/dropDatabas3/castingagency/internal/http/helpers"
	"github.com/dropDatabas3/castingagency/internal/store/core"
)

const resCastings = "castings"

type castingDTO struct {
	ID          int64  `json:"id"`
	ActorID     int64  `json:"actor_id"`
	MovieID     int64  `json:"movie_id"`
	Actor       string `json:"actor"`
	Movie       string `json:"movie"`
	CastingDate string `json:"casting_date"`
	RecastYN    bool   `json:"recast_yn"`
}

func toCastingDTO(c core.Casting) castingDTO {
	return castingDTO{
		ID:          c.ID,
		ActorID:     c.ActorID,
		MovieID:     c.MovieID,
		Actor:       c.ActorName,
		Movie:       c.MovieTitle,
		CastingDate: helpers.FormatDate(c.CastingDate),
		RecastYN:    c.RecastYN,
	}
}

type castingBody struct {
	ActorID     *int64  `json:"actor_id"`
	MovieID     *int64  `json:"movie_id"`
	CastingDate *string `json:"casting_date"`
	RecastYN    *bool   `json:"recast_yn"`
}

// record: recast_yn es opcional en create (default false) y requerido en update.
func (b castingBody) record(recastRequired bool) (core.Casting, error) {
	actorID, err := requiredID("actor_id", b.ActorID)
	if err != nil {
		return core.Casting{}, err
	}
	movieID, err := requiredID("movie_id", b.MovieID)
	if err != nil {
		return core.Casting{}, err
	}
	cd, err := requiredDate("casting_date", b.CastingDate)
	if err != nil {
		return core.Casting{}, err
	}
	rec := core.Casting{ActorID: actorID, MovieID: movieID, CastingDate: cd}
	switch {
	case b.RecastYN != nil:
		rec.RecastYN = *b.RecastYN
	case recastRequired:
		return core.Casting{}, httperrors.Missing("recast_yn")
	}
	return rec, nil
}

type CastingsHandler struct {
	repo core.Repository[core.Casting]
}

func NewCastingsHandler(repo core.Repository[core.Casting]) *CastingsHandler {
	return &CastingsHandler{repo: repo}
}

func (h *CastingsHandler) List(w http.ResponseWriter, r *http.Request) {
	castings, err := h.repo.List(r.Context())
	if err != nil {
		fail(w, r, resCastings, err)
		return
	}
	out := make([]castingDTO, 0, len(castings))
	for _, c := range castings {
		out = append(out, toCastingDTO(c))
	}
	writeList(w, resCastings, out)
}

func (h *CastingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	c, err := h.repo.Get(r.Context(), id)
	if err != nil {
		fail(w, r, resCastings, err)
		return
	}
	writeList(w, resCastings, []castingDTO{toCastingDTO(c)})
}

func (h *CastingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body castingBody
	if err := helpers.ReadJSON(w, r, &body); err != nil {
		fail(w, r, resCastings, err)
		return
	}
	rec, err := body.record(false)
	if err != nil {
		fail(w, r, resCastings, err)
		return
	}
	c, err := h.repo.Create(r.Context(), rec)
	if err != nil {
		fail(w, r, resCastings, err)
		return
	}
	writeMutation(w, resCastings, "created", c.ID, []castingDTO{toCastingDTO(c)})
}

func (h *CastingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	var body castingBody
	if err := helpers.ReadJSON(w, r, &body); err != nil {
		fail(w, r, resCastings, err)
		return
	}
	rec, err := body.record(true)
	if err != nil {
		fail(w, r, resCastings, err)
		return
	}
	c, err := h.repo.Update(r.Context(), id, rec)
	if err != nil {
		fail(w, r, resCastings, err)
		return
	}
	writeMutation(w, resCastings, "modified", id, []castingDTO{toCastingDTO(c)})
}

func (h *CastingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		fail(w, r, resCastings, err)
		return
	}
	writeMutation(w, resCastings, "deleted", id, []castingDTO{})
}
