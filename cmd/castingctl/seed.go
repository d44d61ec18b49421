package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type seededIDs struct {
	Gender, Movie, Actor, Casting int64
}

// seed crea un registro por recurso, en orden de dependencias.
func seed(ctx context.Context, cl *client) (seededIDs, error) {
	var ids seededIDs
	suffix := time.Now().UTC().Format("20060102150405")

	steps := []struct {
		resource string
		body     func() map[string]any
		dst      *int64
	}{
		{"genders", func() map[string]any {
			return map[string]any{"name": "Seed gender " + suffix}
		}, &ids.Gender},
		{"movies", func() map[string]any {
			return map[string]any{"title": "Seed movie " + suffix, "release_date": "2020-01-15"}
		}, &ids.Movie},
		{"actors", func() map[string]any {
			return map[string]any{"name": "Seed actor", "dob": "1990-05-01", "gender_id": ids.Gender}
		}, &ids.Actor},
		{"castings", func() map[string]any {
			return map[string]any{"actor_id": ids.Actor, "movie_id": ids.Movie, "casting_date": "2020-02-01"}
		}, &ids.Casting},
	}
	for _, s := range steps {
		b, _ := json.Marshal(s.body())
		resp, err := cl.call(ctx, http.MethodPost, "/"+s.resource, b)
		if err != nil {
			return ids, fmt.Errorf("seed %s: %w", s.resource, err)
		}
		id, err := createdID(resp)
		if err != nil {
			return ids, fmt.Errorf("seed %s: %w", s.resource, err)
		}
		*s.dst = id
	}
	return ids, nil
}
