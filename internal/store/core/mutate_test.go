package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	calls     []string
	commitErr error
}

func (h *fakeHandle) Commit(context.Context) error {
	h.calls = append(h.calls, "commit")
	return h.commitErr
}

func (h *fakeHandle) Rollback(context.Context) error {
	h.calls = append(h.calls, "rollback")
	return nil
}

func (h *fakeHandle) Release() { h.calls = append(h.calls, "release") }

func step(h *fakeHandle, name string, err error) func(context.Context) error {
	return func(context.Context) error {
		h.calls = append(h.calls, name)
		return err
	}
}

func TestMutate_HappyPath(t *testing.T) {
	h := &fakeHandle{}
	err := Mutate(context.Background(), h, Mutation{
		Resource: "movies",
		Op:       OpCreate,
		Stage:    step(h, "stage", nil),
		Confirm:  step(h, "confirm", nil),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"stage", "commit", "confirm", "release"}, h.calls)
}

func TestMutate_StageFailureRollsBackThenReleases(t *testing.T) {
	h := &fakeHandle{}
	cause := errors.New("duplicate title")
	err := Mutate(context.Background(), h, Mutation{
		Resource: "movies",
		Op:       OpCreate,
		Stage:    step(h, "stage", cause),
		Confirm:  step(h, "confirm", nil),
	})
	require.ErrorIs(t, err, ErrMutationFailed)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"stage", "rollback", "release"}, h.calls)

	var me *MutationError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "movies", me.Resource)
}

func TestMutate_CommitFailureRollsBack(t *testing.T) {
	h := &fakeHandle{commitErr: errors.New("conn reset")}
	err := Mutate(context.Background(), h, Mutation{
		Resource: "castings",
		Op:       OpUpdate,
		Stage:    step(h, "stage", nil),
		Confirm:  step(h, "confirm", nil),
	})
	require.ErrorIs(t, err, ErrMutationFailed)
	assert.Equal(t, []string{"stage", "commit", "rollback", "release"}, h.calls)
}

func TestMutate_LocateNotFoundSkipsStage(t *testing.T) {
	h := &fakeHandle{}
	err := Mutate(context.Background(), h, Mutation{
		Resource: "actors",
		Op:       OpDelete,
		Locate:   step(h, "locate", ErrNotFound),
		Stage:    step(h, "stage", nil),
	})
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrMutationFailed)
	assert.Equal(t, []string{"locate", "rollback", "release"}, h.calls)
}

func TestMutate_ConfirmFailureIsNotRolledBack(t *testing.T) {
	h := &fakeHandle{}
	err := Mutate(context.Background(), h, Mutation{
		Resource: "genders",
		Op:       OpCreate,
		Stage:    step(h, "stage", nil),
		Confirm:  step(h, "confirm", errors.New("reload")),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMutationFailed)
	assert.Equal(t, []string{"stage", "commit", "confirm", "release"}, h.calls)
}

func TestAgeAt(t *testing.T) {
	dob := time.Date(1917, 1, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 100, AgeAt(dob, time.Date(2017, 1, 24, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 99, AgeAt(dob, time.Date(2017, 1, 23, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, AgeAt(dob, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestConstraintWrapsSentinel(t *testing.T) {
	err := Constraint("movie_title_key", errors.New("dup"))
	assert.ErrorIs(t, err, ErrConstraint)
	assert.Contains(t, err.Error(), "movie_title_key")
}
