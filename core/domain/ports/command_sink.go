package ports

import (
	"context"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

// CommandSink receives every mutation intent of a run, in order.
// A sink either applies the intent or records that it would have.
type CommandSink interface {
	Dispatch(ctx context.Context, intent entities.MutationIntent) error
}
