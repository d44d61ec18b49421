package memory

import (
	"context"
	"errors"

	"github.com/dropDatabas3/castingagency/internal/store/core"
)

var (
	errForeignKey = errors.New("referenced row does not exist")
	errReferenced = errors.New("row is still referenced")
	errDuplicate  = errors.New("duplicate key value")
)

// ---------- movies ----------

type movieRepo struct{ s *Store }

func (r movieRepo) List(context.Context) ([]core.Movie, error) {
	var out []core.Movie
	r.s.read(func(st *state) {
		for _, id := range sortedIDs(st.movies) {
			out = append(out, st.movies[id])
		}
	})
	return out, nil
}

func (r movieRepo) Get(_ context.Context, id int64) (core.Movie, error) {
	var (
		m  core.Movie
		ok bool
	)
	r.s.read(func(st *state) { m, ok = st.movies[id] })
	if !ok {
		return core.Movie{}, core.ErrNotFound
	}
	return m, nil
}

func (st *state) checkMovie(m core.Movie) error {
	for id, other := range st.movies {
		if id != m.ID && other.Title == m.Title {
			return core.Constraint("movie_title_key", errDuplicate)
		}
	}
	return nil
}

func (r movieRepo) Create(ctx context.Context, rec core.Movie) (core.Movie, error) {
	err := r.s.mutate(ctx, "movies", core.OpCreate, nil,
		func(st *state) error {
			rec.ID = 0
			if err := st.checkMovie(rec); err != nil {
				return err
			}
			rec.ID = st.nextID("movies")
			st.movies[rec.ID] = rec
			return nil
		},
		func(st *state) error {
			rec = st.movies[rec.ID]
			return nil
		})
	if err != nil {
		return core.Movie{}, err
	}
	return rec, nil
}

func (r movieRepo) Update(ctx context.Context, id int64, rec core.Movie) (core.Movie, error) {
	rec.ID = id
	err := r.s.mutate(ctx, "movies", core.OpUpdate,
		func(st *state) error { return exists(st.movies, id) },
		func(st *state) error {
			if err := st.checkMovie(rec); err != nil {
				return err
			}
			st.movies[id] = rec
			return nil
		},
		func(st *state) error {
			rec = st.movies[id]
			return nil
		})
	if err != nil {
		return core.Movie{}, err
	}
	return rec, nil
}

func (r movieRepo) Delete(ctx context.Context, id int64) error {
	return r.s.mutate(ctx, "movies", core.OpDelete,
		func(st *state) error { return exists(st.movies, id) },
		func(st *state) error {
			for _, c := range st.castings {
				if c.MovieID == id {
					return core.Constraint("casting_movie_id_fkey", errReferenced)
				}
			}
			delete(st.movies, id)
			return nil
		}, nil)
}

// ---------- genders ----------

type genderRepo struct{ s *Store }

func (r genderRepo) List(context.Context) ([]core.Gender, error) {
	var out []core.Gender
	r.s.read(func(st *state) {
		for _, id := range sortedIDs(st.genders) {
			out = append(out, st.genders[id])
		}
	})
	return out, nil
}

func (r genderRepo) Get(_ context.Context, id int64) (core.Gender, error) {
	var (
		g  core.Gender
		ok bool
	)
	r.s.read(func(st *state) { g, ok = st.genders[id] })
	if !ok {
		return core.Gender{}, core.ErrNotFound
	}
	return g, nil
}

func (st *state) checkGender(g core.Gender) error {
	for id, other := range st.genders {
		if id != g.ID && other.Name == g.Name {
			return core.Constraint("gender_name_key", errDuplicate)
		}
	}
	return nil
}

func (r genderRepo) Create(ctx context.Context, rec core.Gender) (core.Gender, error) {
	err := r.s.mutate(ctx, "genders", core.OpCreate, nil,
		func(st *state) error {
			rec.ID = 0
			if err := st.checkGender(rec); err != nil {
				return err
			}
			rec.ID = st.nextID("genders")
			st.genders[rec.ID] = rec
			return nil
		},
		func(st *state) error {
			rec = st.genders[rec.ID]
			return nil
		})
	if err != nil {
		return core.Gender{}, err
	}
	return rec, nil
}

func (r genderRepo) Update(ctx context.Context, id int64, rec core.Gender) (core.Gender, error) {
	rec.ID = id
	err := r.s.mutate(ctx, "genders", core.OpUpdate,
		func(st *state) error { return exists(st.genders, id) },
		func(st *state) error {
			if err := st.checkGender(rec); err != nil {
				return err
			}
			st.genders[id] = rec
			return nil
		},
		func(st *state) error {
			rec = st.genders[id]
			return nil
		})
	if err != nil {
		return core.Gender{}, err
	}
	return rec, nil
}

func (r genderRepo) Delete(ctx context.Context, id int64) error {
	return r.s.mutate(ctx, "genders", core.OpDelete,
		func(st *state) error { return exists(st.genders, id) },
		func(st *state) error {
			for _, a := range st.actors {
				if a.GenderID == id {
					return core.Constraint("actor_gender_id_fkey", errReferenced)
				}
			}
			delete(st.genders, id)
			return nil
		}, nil)
}

// ---------- actors ----------

type actorRepo struct{ s *Store }

func (r actorRepo) List(context.Context) ([]core.Actor, error) {
	var out []core.Actor
	r.s.read(func(st *state) {
		for _, id := range sortedIDs(st.actors) {
			out = append(out, st.actors[id])
		}
	})
	return out, nil
}

func (r actorRepo) Get(_ context.Context, id int64) (core.Actor, error) {
	var (
		a  core.Actor
		ok bool
	)
	r.s.read(func(st *state) { a, ok = st.actors[id] })
	if !ok {
		return core.Actor{}, core.ErrNotFound
	}
	return a, nil
}

func (st *state) checkActor(a core.Actor) error {
	if _, ok := st.genders[a.GenderID]; !ok {
		return core.Constraint("actor_gender_id_fkey", errForeignKey)
	}
	return nil
}

func (r actorRepo) Create(ctx context.Context, rec core.Actor) (core.Actor, error) {
	err := r.s.mutate(ctx, "actors", core.OpCreate, nil,
		func(st *state) error {
			if err := st.checkActor(rec); err != nil {
				return err
			}
			rec.ID = st.nextID("actors")
			st.actors[rec.ID] = rec
			return nil
		},
		func(st *state) error {
			rec = st.actors[rec.ID]
			return nil
		})
	if err != nil {
		return core.Actor{}, err
	}
	return rec, nil
}

func (r actorRepo) Update(ctx context.Context, id int64, rec core.Actor) (core.Actor, error) {
	rec.ID = id
	err := r.s.mutate(ctx, "actors", core.OpUpdate,
		func(st *state) error { return exists(st.actors, id) },
		func(st *state) error {
			if err := st.checkActor(rec); err != nil {
				return err
			}
			st.actors[id] = rec
			return nil
		},
		func(st *state) error {
			rec = st.actors[id]
			return nil
		})
	if err != nil {
		return core.Actor{}, err
	}
	return rec, nil
}

func (r actorRepo) Delete(ctx context.Context, id int64) error {
	return r.s.mutate(ctx, "actors", core.OpDelete,
		func(st *state) error { return exists(st.actors, id) },
		func(st *state) error {
			for _, c := range st.castings {
				if c.ActorID == id {
					return core.Constraint("casting_actor_id_fkey", errReferenced)
				}
			}
			delete(st.actors, id)
			return nil
		}, nil)
}

// ---------- castings ----------

type castingRepo struct{ s *Store }

func (st *state) joinCasting(c core.Casting) core.Casting {
	c.ActorName = st.actors[c.ActorID].Name
	c.MovieTitle = st.movies[c.MovieID].Title
	return c
}

func (r castingRepo) List(context.Context) ([]core.Casting, error) {
	var out []core.Casting
	r.s.read(func(st *state) {
		for _, id := range sortedIDs(st.castings) {
			out = append(out, st.joinCasting(st.castings[id]))
		}
	})
	return out, nil
}

func (r castingRepo) Get(_ context.Context, id int64) (core.Casting, error) {
	var (
		c  core.Casting
		ok bool
	)
	r.s.read(func(st *state) {
		c, ok = st.castings[id]
		if ok {
			c = st.joinCasting(c)
		}
	})
	if !ok {
		return core.Casting{}, core.ErrNotFound
	}
	return c, nil
}

func (st *state) checkCasting(c core.Casting) error {
	if _, ok := st.actors[c.ActorID]; !ok {
		return core.Constraint("casting_actor_id_fkey", errForeignKey)
	}
	if _, ok := st.movies[c.MovieID]; !ok {
		return core.Constraint("casting_movie_id_fkey", errForeignKey)
	}
	for id, other := range st.castings {
		if id != c.ID && other.ActorID == c.ActorID && other.MovieID == c.MovieID && other.CastingDate.Equal(c.CastingDate) {
			return core.Constraint("ux_actor_movie_date", errDuplicate)
		}
	}
	return nil
}

func (r castingRepo) Create(ctx context.Context, rec core.Casting) (core.Casting, error) {
	err := r.s.mutate(ctx, "castings", core.OpCreate, nil,
		func(st *state) error {
			rec.ID = 0
			rec.ActorName, rec.MovieTitle = "", ""
			if err := st.checkCasting(rec); err != nil {
				return err
			}
			rec.ID = st.nextID("castings")
			st.castings[rec.ID] = rec
			return nil
		},
		func(st *state) error {
			rec = st.joinCasting(st.castings[rec.ID])
			return nil
		})
	if err != nil {
		return core.Casting{}, err
	}
	return rec, nil
}

func (r castingRepo) Update(ctx context.Context, id int64, rec core.Casting) (core.Casting, error) {
	rec.ID = id
	rec.ActorName, rec.MovieTitle = "", ""
	err := r.s.mutate(ctx, "castings", core.OpUpdate,
		func(st *state) error { return exists(st.castings, id) },
		func(st *state) error {
			if err := st.checkCasting(rec); err != nil {
				return err
			}
			st.castings[id] = rec
			return nil
		},
		func(st *state) error {
			rec = st.joinCasting(st.castings[id])
			return nil
		})
	if err != nil {
		return core.Casting{}, err
	}
	return rec, nil
}

func (r castingRepo) Delete(ctx context.Context, id int64) error {
	return r.s.mutate(ctx, "castings", core.OpDelete,
		func(st *state) error { return exists(st.castings, id) },
		func(st *state) error {
			delete(st.castings, id)
			return nil
		}, nil)
}

func exists[T any](m map[int64]T, id int64) error {
	if _, ok := m[id]; !ok {
		return core.ErrNotFound
	}
	return nil
}
