package routine

import (
	"context"
	"fmt"

	"github.com/vvka-141/sprocgen/internal/placeholder"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// MustReload reports whether a routine must be loaded again. It must if there
// is no prior record, the source changed since the record was made, any
// placeholder the source used now has a different value, or the routine no
// longer exists in the RDBMS.
func MustReload(ctx context.Context, old *sprocgen.RoutineMetadata, src *Source, table placeholder.Table, backend sprocgen.Backend) (bool, error) {
	if old == nil {
		return true, nil
	}
	if old.Timestamp != src.ModTime {
		return true, nil
	}

	for token, value := range old.Replace {
		current, ok := table.Lookup(token)
		if !ok || current != value {
			return true, nil
		}
	}

	exists, err := backend.RoutineExists(ctx, src.Name)
	if err != nil {
		return false, fmt.Errorf("failed to check routine %s: %w", src.Name, err)
	}
	return !exists, nil
}
