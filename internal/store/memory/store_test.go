package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/castingagency/internal/store/core"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func seed(t *testing.T, s *Store) (core.Gender, core.Movie, core.Actor) {
	t.Helper()
	ctx := context.Background()
	g, err := s.Genders().Create(ctx, core.Gender{Name: "Male"})
	require.NoError(t, err)
	m, err := s.Movies().Create(ctx, core.Movie{Title: "The Girl with the Dragon Tattoo", ReleaseDate: date(2011, 12, 20)})
	require.NoError(t, err)
	a, err := s.Actors().Create(ctx, core.Actor{Name: "Ernest Borgnine", DOB: date(1917, 1, 24), GenderID: g.ID})
	require.NoError(t, err)
	return g, m, a
}

func TestCreateAssignsIDs(t *testing.T) {
	s := New()
	g, m, a := seed(t, s)
	assert.Equal(t, int64(1), g.ID)
	assert.Equal(t, int64(1), m.ID)
	assert.Equal(t, int64(1), a.ID)

	got, err := s.Movies().Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestUniqueTitleFailsAndLeavesStateUntouched(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, m, _ := seed(t, s)

	_, err := s.Movies().Create(ctx, core.Movie{Title: m.Title, ReleaseDate: date(2020, 1, 1)})
	require.ErrorIs(t, err, core.ErrMutationFailed)
	require.ErrorIs(t, err, core.ErrConstraint)

	list, err := s.Movies().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	m2, err := s.Movies().Create(ctx, core.Movie{Title: "Marty", ReleaseDate: date(1955, 4, 11)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), m2.ID)
}

func TestForeignKeys(t *testing.T) {
	s := New()
	ctx := context.Background()
	g, m, a := seed(t, s)

	_, err := s.Actors().Create(ctx, core.Actor{Name: "Nobody", DOB: date(1990, 1, 1), GenderID: 99})
	require.ErrorIs(t, err, core.ErrMutationFailed)

	_, err = s.Castings().Create(ctx, core.Casting{ActorID: a.ID, MovieID: 42, CastingDate: date(2011, 1, 1)})
	require.ErrorIs(t, err, core.ErrMutationFailed)

	c, err := s.Castings().Create(ctx, core.Casting{ActorID: a.ID, MovieID: m.ID, CastingDate: date(2011, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, "Ernest Borgnine", c.ActorName)
	assert.Equal(t, m.Title, c.MovieTitle)
	assert.False(t, c.RecastYN)

	// restrict: referenciados no se borran
	require.ErrorIs(t, s.Movies().Delete(ctx, m.ID), core.ErrMutationFailed)
	require.ErrorIs(t, s.Actors().Delete(ctx, a.ID), core.ErrMutationFailed)
	require.ErrorIs(t, s.Genders().Delete(ctx, g.ID), core.ErrMutationFailed)

	require.NoError(t, s.Castings().Delete(ctx, c.ID))
	require.NoError(t, s.Actors().Delete(ctx, a.ID))
	require.NoError(t, s.Genders().Delete(ctx, g.ID))
	require.NoError(t, s.Movies().Delete(ctx, m.ID))
}

func TestCastingUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, m, a := seed(t, s)

	in := core.Casting{ActorID: a.ID, MovieID: m.ID, CastingDate: date(2011, 1, 1)}
	_, err := s.Castings().Create(ctx, in)
	require.NoError(t, err)
	_, err = s.Castings().Create(ctx, in)
	require.ErrorIs(t, err, core.ErrConstraint)

	in.CastingDate = date(2011, 1, 2)
	_, err = s.Castings().Create(ctx, in)
	require.NoError(t, err)
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Genders().Update(ctx, 7, core.Gender{Name: "Female"})
	require.ErrorIs(t, err, core.ErrNotFound)
	require.ErrorIs(t, s.Castings().Delete(ctx, 7), core.ErrNotFound)
	_, err = s.Actors().Get(ctx, 7)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateReplacesFields(t *testing.T) {
	s := New()
	ctx := context.Background()
	g, _, a := seed(t, s)
	female, err := s.Genders().Create(ctx, core.Gender{Name: "Female"})
	require.NoError(t, err)

	up, err := s.Actors().Update(ctx, a.ID, core.Actor{Name: "Ernest B.", DOB: date(1917, 1, 25), GenderID: female.ID})
	require.NoError(t, err)
	assert.Equal(t, a.ID, up.ID)
	assert.Equal(t, "Ernest B.", up.Name)
	assert.Equal(t, female.ID, up.GenderID)

	// renombrar a un nombre existente viola unique
	_, err = s.Genders().Update(ctx, female.ID, core.Gender{Name: g.Name})
	require.ErrorIs(t, err, core.ErrConstraint)
	// renombrar al mismo nombre no
	_, err = s.Genders().Update(ctx, female.ID, core.Gender{Name: "Female"})
	require.NoError(t, err)
}

func TestConcurrentCreates(t *testing.T) {
	s := New()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Genders().Create(ctx, core.Gender{Name: time.Duration(i).String()})
		}(i)
	}
	wg.Wait()
	list, err := s.Genders().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
