// Package memory es un core.Store en proceso. Cada mutación toma el lock
// exclusivo, trabaja sobre una copia del estado y la publica en Commit.
// Aplica las mismas reglas de integridad que el schema de Postgres
// (unique, foreign keys con restrict).
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/dropDatabas3/castingagency/internal/store/core"
)

type state struct {
	movies   map[int64]core.Movie
	genders  map[int64]core.Gender
	actors   map[int64]core.Actor
	castings map[int64]core.Casting
	seq      map[string]int64
}

func newState() *state {
	return &state{
		movies:   map[int64]core.Movie{},
		genders:  map[int64]core.Gender{},
		actors:   map[int64]core.Actor{},
		castings: map[int64]core.Casting{},
		seq:      map[string]int64{},
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.movies {
		out.movies[k] = v
	}
	for k, v := range s.genders {
		out.genders[k] = v
	}
	for k, v := range s.actors {
		out.actors[k] = v
	}
	for k, v := range s.castings {
		out.castings[k] = v
	}
	// la secuencia se comparte: un rollback no devuelve ids
	out.seq = s.seq
	return out
}

// nextID sólo se llama con el lock exclusivo tomado.
func (s *state) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

type Store struct {
	mu   sync.RWMutex
	data *state
}

var _ core.Store = (*Store)(nil)

func New() *Store { return &Store{data: newState()} }

func (s *Store) Movies() core.Repository[core.Movie]     { return movieRepo{s} }
func (s *Store) Actors() core.Repository[core.Actor]     { return actorRepo{s} }
func (s *Store) Genders() core.Repository[core.Gender]   { return genderRepo{s} }
func (s *Store) Castings() core.Repository[core.Casting] { return castingRepo{s} }

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}

// handle implementa core.Handle sobre el lock exclusivo del store.
type handle struct {
	s       *Store
	staged  *state
	done    bool
	release sync.Once
}

func (s *Store) begin() *handle {
	s.mu.Lock()
	return &handle{s: s, staged: s.data.clone()}
}

var errHandleClosed = errors.New("memory: handle already committed or rolled back")

func (h *handle) Commit(context.Context) error {
	if h.done {
		return errHandleClosed
	}
	h.s.data = h.staged
	h.done = true
	return nil
}

func (h *handle) Rollback(context.Context) error {
	h.staged = nil
	h.done = true
	return nil
}

func (h *handle) Release() {
	h.release.Do(h.s.mu.Unlock)
}

// mutate abre un handle y corre la mutación; locate y stage ven la copia
// staged, confirm ve el estado publicado.
func (s *Store) mutate(ctx context.Context, resource, op string, locate, stage, confirm func(*state) error) error {
	h := s.begin()
	m := core.Mutation{
		Resource: resource,
		Op:       op,
		Stage:    func(context.Context) error { return stage(h.staged) },
	}
	if locate != nil {
		m.Locate = func(context.Context) error { return locate(h.staged) }
	}
	if confirm != nil {
		m.Confirm = func(context.Context) error { return confirm(h.s.data) }
	}
	return core.Mutate(ctx, h, m)
}

func (s *Store) read(fn func(*state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
