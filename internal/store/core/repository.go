package core

import "context"

// Repository es el CRUD de una entidad. Create/Update/Delete abren y cierran su
// propio envelope (ver Mutate); el caller nunca maneja transacciones.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	// Create devuelve el registro confirmado (id generado, campos derivados).
	Create(ctx context.Context, rec T) (T, error)
	// Update reemplaza todos los campos mutables del registro id.
	Update(ctx context.Context, id int64, rec T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Store agrupa los repositorios de un backend.
type Store interface {
	Movies() Repository[Movie]
	Actors() Repository[Actor]
	Genders() Repository[Gender]
	Castings() Repository[Casting]

	Ping(ctx context.Context) error
	Close()
}
