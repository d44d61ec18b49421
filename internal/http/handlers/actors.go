package handlers

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/castingagency/internal/http/helpers"
	"github.com/dropDatabas3/castingagency/internal/store/core"
)

const resActors = "actors"

type actorDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	DOB      string `json:"dob"`
	Age      int    `json:"age"`
	GenderID int64  `json:"gender_id"`
}

type actorBody struct {
	Name     *string `json:"name"`
	DOB      *string `json:"dob"`
	GenderID *int64  `json:"gender_id"`
}

func (b actorBody) record() (core.Actor, error) {
	name, err := requiredString("name", b.Name)
	if err != nil {
		return core.Actor{}, err
	}
	dob, err := requiredDate("dob", b.DOB)
	if err != nil {
		return core.Actor{}, err
	}
	gid, err := requiredID("gender_id", b.GenderID)
	if err != nil {
		return core.Actor{}, err
	}
	return core.Actor{Name: name, DOB: dob, GenderID: gid}, nil
}

type ActorsHandler struct {
	repo core.Repository[core.Actor]
	now  func() time.Time
}

func NewActorsHandler(repo core.Repository[core.Actor]) *ActorsHandler {
	return &ActorsHandler{repo: repo, now: time.Now}
}

func (h *ActorsHandler) dto(a core.Actor) actorDTO {
	return actorDTO{
		ID:       a.ID,
		Name:     a.Name,
		DOB:      helpers.FormatDate(a.DOB),
		Age:      a.Age(h.now()),
		GenderID: a.GenderID,
	}
}

func (h *ActorsHandler) List(w http.ResponseWriter, r *http.Request) {
	actors, err := h.repo.List(r.Context())
	if err != nil {
		fail(w, r, resActors, err)
		return
	}
	out := make([]actorDTO, 0, len(actors))
	for _, a := range actors {
		out = append(out, h.dto(a))
	}
	writeList(w, resActors, out)
}

func (h *ActorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	a, err := h.repo.Get(r.Context(), id)
	if err != nil {
		fail(w, r, resActors, err)
		return
	}
	writeList(w, resActors, []actorDTO{h.dto(a)})
}

func (h *ActorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body actorBody
	if err := helpers.ReadJSON(w, r, &body); err != nil {
		fail(w, r, resActors, err)
		return
	}
	rec, err := body.record()
	if err != nil {
		fail(w, r, resActors, err)
		return
	}
	a, err := h.repo.Create(r.Context(), rec)
	if err != nil {
		fail(w, r, resActors, err)
		return
	}
	writeMutation(w, resActors, "created", a.ID, []actorDTO{h.dto(a)})
}

func (h *ActorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	var body actorBody
	if err := helpers.ReadJSON(w, r, &body); err != nil {
		fail(w, r, resActors, err)
		return
	}
	rec, err := body.record()
	if err != nil {
		fail(w, r, resActors, err)
		return
	}
	a, err := h.repo.Update(r.Context(), id, rec)
	if err != nil {
		fail(w, r, resActors, err)
		return
	}
	writeMutation(w, resActors, "modified", id, []actorDTO{h.dto(a)})
}

func (h *ActorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idOr404(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		fail(w, r, resActors, err)
		return
	}
	writeMutation(w, resActors, "deleted", id, []actorDTO{})
}
