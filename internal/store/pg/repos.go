package pg

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/castingagency/internal/store/core"
)

// ---------- movies ----------

const movieCols = `id, title, release_date`

func scanMovie(r scanner) (core.Movie, error) {
	var m core.Movie
	err := r.Scan(&m.ID, &m.Title, &m.ReleaseDate)
	return m, err
}

type movieRepo struct{ s *Store }

func (r movieRepo) List(ctx context.Context) ([]core.Movie, error) {
	return list(ctx, r.s.pool, `SELECT `+movieCols+` FROM movie ORDER BY id`, scanMovie)
}

func (r movieRepo) Get(ctx context.Context, id int64) (core.Movie, error) {
	return get(ctx, r.s.pool, `SELECT `+movieCols+` FROM movie WHERE id = $1`, id, scanMovie)
}

func (r movieRepo) reload(id int64, out *core.Movie) func(context.Context, querier) error {
	return func(ctx context.Context, q querier) error {
		m, err := get(ctx, q, `SELECT `+movieCols+` FROM movie WHERE id = $1`, id, scanMovie)
		*out = m
		return err
	}
}

func (r movieRepo) Create(ctx context.Context, rec core.Movie) (core.Movie, error) {
	var out core.Movie
	err := r.s.mutate(ctx, "movies", core.OpCreate, nil,
		func(ctx context.Context, tx pgx.Tx) error {
			return tx.QueryRow(ctx,
				`INSERT INTO movie (title, release_date) VALUES ($1, $2) RETURNING id`,
				rec.Title, rec.ReleaseDate,
			).Scan(&rec.ID)
		},
		func(ctx context.Context, q querier) error { return r.reload(rec.ID, &out)(ctx, q) })
	return out, err
}

func (r movieRepo) Update(ctx context.Context, id int64, rec core.Movie) (core.Movie, error) {
	var out core.Movie
	err := r.s.mutate(ctx, "movies", core.OpUpdate, lockRow("movie", id),
		func(ctx context.Context, tx pgx.Tx) error {
			return execOne(ctx, tx, `UPDATE movie SET title = $2, release_date = $3 WHERE id = $1`,
				id, rec.Title, rec.ReleaseDate)
		},
		r.reload(id, &out))
	return out, err
}

func (r movieRepo) Delete(ctx context.Context, id int64) error {
	return r.s.mutate(ctx, "movies", core.OpDelete, lockRow("movie", id),
		func(ctx context.Context, tx pgx.Tx) error {
			return execOne(ctx, tx, `DELETE FROM movie WHERE id = $1`, id)
		}, nil)
}

// ---------- genders ----------

const genderCols = `id, name`

func scanGender(r scanner) (core.Gender, error) {
	var g core.Gender
	err := r.Scan(&g.ID, &g.Name)
	return g, err
}

type genderRepo struct{ s *Store }

func (r genderRepo) List(ctx context.Context) ([]core.Gender, error) {
	return list(ctx, r.s.pool, `SELECT `+genderCols+` FROM gender ORDER BY id`, scanGender)
}

func (r genderRepo) Get(ctx context.Context, id int64) (core.Gender, error) {
	return get(ctx, r.s.pool, `SELECT `+genderCols+` FROM gender WHERE id = $1`, id, scanGender)
}

func (r genderRepo) reload(id int64, out *core.Gender) func(context.Context, querier) error {
	return func(ctx context.Context, q querier) error {
		g, err := get(ctx, q, `SELECT `+genderCols+` FROM gender WHERE id = $1`, id, scanGender)
		*out = g
		return err
	}
}

func (r genderRepo) Create(ctx context.Context, rec core.Gender) (core.Gender, error) {
	var out core.Gender
	err := r.s.mutate(ctx, "genders", core.OpCreate, nil,
		func(ctx context.Context, tx pgx.Tx) error {
			return tx.QueryRow(ctx, `INSERT INTO gender (name) VALUES ($1) RETURNING id`, rec.Name).Scan(&rec.ID)
		},
		func(ctx context.Context, q querier) error { return r.reload(rec.ID, &out)(ctx, q) })
	return out, err
}

func (r genderRepo) Update(ctx context.Context, id int64, rec core.Gender) (core.Gender, error) {
	var out core.Gender
	err := r.s.mutate(ctx, "genders", core.OpUpdate, lockRow("gender", id),
		func(ctx context.Context, tx pgx.Tx) error {
			return execOne(ctx, tx, `UPDATE gender SET name = $2 WHERE id = $1`, id, rec.Name)
		},
		r.reload(id, &out))
	return out, err
}

func (r genderRepo) Delete(ctx context.Context, id int64) error {
	return r.s.mutate(ctx, "genders", core.OpDelete, lockRow("gender", id),
		func(ctx context.Context, tx pgx.Tx) error {
			return execOne(ctx, tx, `DELETE FROM gender WHERE id = $1`, id)
		}, nil)
}

// ---------- actors ----------

const actorCols = `id, name, dob, gender_id`

func scanActor(r scanner) (core.Actor, error) {
	var a core.Actor
	err := r.Scan(&a.ID, &a.Name, &a.DOB, &a.GenderID)
	return a, err
}

type actorRepo struct{ s *Store }

func (r actorRepo) List(ctx context.Context) ([]core.Actor, error) {
	return list(ctx, r.s.pool, `SELECT `+actorCols+` FROM actor ORDER BY id`, scanActor)
}

func (r actorRepo) Get(ctx context.Context, id int64) (core.Actor, error) {
	return get(ctx, r.s.pool, `SELECT `+actorCols+` FROM actor WHERE id = $1`, id, scanActor)
}

func (r actorRepo) reload(id int64, out *core.Actor) func(context.Context, querier) error {
	return func(ctx context.Context, q querier) error {
		a, err := get(ctx, q, `SELECT `+actorCols+` FROM actor WHERE id = $1`, id, scanActor)
		*out = a
		return err
	}
}

func (r actorRepo) Create(ctx context.Context, rec core.Actor) (core.Actor, error) {
	var out core.Actor
	err := r.s.mutate(ctx, "actors", core.OpCreate, nil,
		func(ctx context.Context, tx pgx.Tx) error {
			return tx.QueryRow(ctx,
				`INSERT INTO actor (name, dob, gender_id) VALUES ($1, $2, $3) RETURNING id`,
				rec.Name, rec.DOB, rec.GenderID,
			).Scan(&rec.ID)
		},
		func(ctx context.Context, q querier) error { return r.reload(rec.ID, &out)(ctx, q) })
	return out, err
}

func (r actorRepo) Update(ctx context.Context, id int64, rec core.Actor) (core.Actor, error) {
	var out core.Actor
	err := r.s.mutate(ctx, "actors", core.OpUpdate, lockRow("actor", id),
		func(ctx context.Context, tx pgx.Tx) error {
			return execOne(ctx, tx, `UPDATE actor SET name = $2, dob = $3, gender_id = $4 WHERE id = $1`,
				id, rec.Name, rec.DOB, rec.GenderID)
		},
		r.reload(id, &out))
	return out, err
}

func (r actorRepo) Delete(ctx context.Context, id int64) error {
	return r.s.mutate(ctx, "actors", core.OpDelete, lockRow("actor", id),
		func(ctx context.Context, tx pgx.Tx) error {
			return execOne(ctx, tx, `DELETE FROM actor WHERE id = $1`, id)
		}, nil)
}

// ---------- castings ----------

const castingSelect = `SELECT c.id, c.actor_id, c.movie_id, c.casting_date, c.recast_yn, a.name, m.title
FROM casting c
JOIN actor a ON a.id = c.actor_id
JOIN movie m ON m.id = c.movie_id`

func scanCasting(r scanner) (core.Casting, error) {
	var c core.Casting
	err := r.Scan(&c.ID, &c.ActorID, &c.MovieID, &c.CastingDate, &c.RecastYN, &c.ActorName, &c.MovieTitle)
	return c, err
}

type castingRepo struct{ s *Store }

func (r castingRepo) List(ctx context.Context) ([]core.Casting, error) {
	return list(ctx, r.s.pool, castingSelect+` ORDER BY c.id`, scanCasting)
}

func (r castingRepo) Get(ctx context.Context, id int64) (core.Casting, error) {
	return get(ctx, r.s.pool, castingSelect+` WHERE c.id = $1`, id, scanCasting)
}

func (r castingRepo) reload(id int64, out *core.Casting) func(context.Context, querier) error {
	return func(ctx context.Context, q querier) error {
		c, err := get(ctx, q, castingSelect+` WHERE c.id = $1`, id, scanCasting)
		*out = c
		return err
	}
}

func (r castingRepo) Create(ctx context.Context, rec core.Casting) (core.Casting, error) {
	var out core.Casting
	err := r.s.mutate(ctx, "castings", core.OpCreate, nil,
		func(ctx context.Context, tx pgx.Tx) error {
			return tx.QueryRow(ctx,
				`INSERT INTO casting (actor_id, movie_id, casting_date, recast_yn) VALUES ($1, $2, $3, $4) RETURNING id`,
				rec.ActorID, rec.MovieID, rec.CastingDate, rec.RecastYN,
			).Scan(&rec.ID)
		},
		func(ctx context.Context, q querier) error { return r.reload(rec.ID, &out)(ctx, q) })
	return out, err
}

func (r castingRepo) Update(ctx context.Context, id int64, rec core.Casting) (core.Casting, error) {
	var out core.Casting
	err := r.s.mutate(ctx, "castings", core.OpUpdate, lockRow("casting", id),
		func(ctx context.Context, tx pgx.Tx) error {
			return execOne(ctx, tx,
				`UPDATE casting SET actor_id = $2, movie_id = $3, casting_date = $4, recast_yn = $5 WHERE id = $1`,
				id, rec.ActorID, rec.MovieID, rec.CastingDate, rec.RecastYN)
		},
		r.reload(id, &out))
	return out, err
}

func (r castingRepo) Delete(ctx context.Context, id int64) error {
	return r.s.mutate(ctx, "castings", core.OpDelete, lockRow("casting", id),
		func(ctx context.Context, tx pgx.Tx) error {
			return execOne(ctx, tx, `DELETE FROM casting WHERE id = $1`, id)
		}, nil)
}
