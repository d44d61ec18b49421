package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dropDatabas3/castingagency/internal/metrics"
	"github.com/dropDatabas3/castingagency/internal/observability/logger"
)

// Operaciones de Mutation.Op.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Handle es la unidad de trabajo que abre el store para un request.
// Release se llama exactamente una vez, también después de Commit o Rollback.
type Handle interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Release()
}

// Mutation describe un cambio. Locate y Confirm son opcionales.
type Mutation struct {
	Resource string
	Op       string

	// Locate corre antes de stage; ErrNotFound corta con rollback y sin stage.
	Locate func(ctx context.Context) error
	// Stage agrega, modifica o marca para borrar dentro del handle.
	Stage func(ctx context.Context) error
	// Confirm recarga después del commit (id generado, defaults, joins).
	Confirm func(ctx context.Context) error
}

// Mutate ejecuta Staged -> Applied -> Confirmed, o Staged -> RolledBack si
// stage o commit fallan; Released en ambos caminos.
func Mutate(ctx context.Context, h Handle, m Mutation) (err error) {
	log := logger.From(ctx).With(logger.Resource(m.Resource), logger.Op(m.Op))
	defer func() {
		h.Release()
		log.Debug("mutation released", logger.Stage("released"))
		metrics.RecordMutation(m.Resource, m.Op, result(err))
	}()

	if m.Locate != nil {
		if err := m.Locate(ctx); err != nil {
			// el handle se devuelve sin transacción abierta también en not found
			_ = h.Rollback(ctx)
			if errors.Is(err, ErrNotFound) {
				return err
			}
			return fmt.Errorf("%s %s: locate: %w", m.Op, m.Resource, err)
		}
	}

	if err := m.Stage(ctx); err != nil {
		return rollback(ctx, h, log, m, err)
	}
	log.Debug("mutation staged", logger.Stage("staged"))

	if err := h.Commit(ctx); err != nil {
		return rollback(ctx, h, log, m, err)
	}
	log.Debug("mutation applied", logger.Stage("applied"))

	if m.Confirm != nil {
		if err := m.Confirm(ctx); err != nil {
			// el cambio ya está aplicado; no hay rollback posible
			log.Error("mutation confirm failed", logger.Stage("confirm"), logger.Err(err))
			return fmt.Errorf("%s %s: confirm: %w", m.Op, m.Resource, err)
		}
		log.Debug("mutation confirmed", logger.Stage("confirmed"))
	}
	return nil
}

func rollback(ctx context.Context, h Handle, log *zap.Logger, m Mutation, cause error) error {
	if rbErr := h.Rollback(ctx); rbErr != nil {
		cause = errors.Join(cause, fmt.Errorf("rollback: %w", rbErr))
	}
	log.Warn("mutation rolled back", logger.Stage("rolled_back"), logger.Err(cause))
	return &MutationError{Resource: m.Resource, Op: m.Op, Err: cause}
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMutationFailed):
		return "rolled_back"
	default:
		return "error"
	}
}
