package handlers

import (
	"net/http"

	"github.com/dropDatabas3/castingagency/internal/http/helpers"
	"github.com/dropDatabas3/castingagency/internal/store/core"
)

const resGenders = "genders"

type genderDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toGenderDTO(g core.Gender) genderDTO { return genderDTO{ID: g.ID, Name: g.Name} }

type genderBody struct {
	Name *string `json:"name"`
}

func (b genderBody) record() (core.Gender, error) {
	name, err := requiredString("name", b.Name)
	if err != nil {
		return core.Gender{}, err
	}
	return core.Gender{Name: name}, nil
}

type GendersHandler struct {
	repo core.Repository[core.Gender]
}

func NewGendersHandler(repo core.Repository[core.Gender]) *GendersHandler {
	return &GendersHandler{repo: repo}
}

func (h *GendersHandler) List(w http.ResponseWriter, r *http.Request) {
	genders, err := h.repo.List(r.Context())
	if err != nil {
		fail(w, r, resGenders, err)
		return
	}
	out := make([]genderDTO, 0, len(genders))
	for _, g := range genders {
		out = append(out, toGenderDTO(g))
	}
	writeList(w, resGenders, out)
}

func (h *GendersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	g, err := h.repo.Get(r.Context(), id)
	if err != nil {
		fail(w, r, resGenders, err)
		return
	}
	writeList(w, resGenders, []genderDTO{toGenderDTO(g)})
}

func (h *GendersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body genderBody
	if err := helpers.ReadJSON(w, r, &body); err != nil {
		fail(w, r, resGenders, err)
		return
	}
	rec, err := body.record()
	if err != nil {
		fail(w, r, resGenders, err)
		return
	}
	g, err := h.repo.Create(r.Context(), rec)
	if err != nil {
		fail(w, r, resGenders, err)
		return
	}
	writeMutation(w, resGenders, "created", g.ID, []genderDTO{toGenderDTO(g)})
}

func (h *GendersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	var body genderBody
	if err := helpers.ReadJSON(w, r, &body); err != nil {
		fail(w, r, resGenders, err)
		return
	}
	rec, err := body.record()
	if err != nil {
		fail(w, r, resGenders, err)
		return
	}
	g, err := h.repo.Update(r.Context(), id, rec)
	if err != nil {
		fail(w, r, resGenders, err)
		return
	}
	writeMutation(w, resGenders, "modified", id, []genderDTO{toGenderDTO(g)})
}

func (h *GendersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		fail(w, r, resGenders, err)
		return
	}
	writeMutation(w, resGenders, "deleted", id, []genderDTO{})
}
