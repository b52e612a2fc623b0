package routine

import (
	"fmt"

	"github.com/vvka-141/sprocgen/internal/docblock"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// Reconcile cross-checks the parameters reported by the RDBMS against the
// documented @param tags and returns a warning per mismatch: first the
// undocumented parameters in declaration order, then the documented names
// that do not exist. The RDBMS list is authoritative.
func Reconcile(params []sprocgen.RoutineParameter, documented []docblock.ParamTag) []string {
	var warnings []string

	documentedNames := make(map[string]bool, len(documented))
	for _, tag := range documented {
		documentedNames[tag.Name] = true
	}
	actual := make(map[string]bool, len(params))
	for _, p := range params {
		actual[p.Name] = true
		if !documentedNames[p.Name] {
			warnings = append(warnings, fmt.Sprintf("Parameter %s is missing in doc block", p.Name))
		}
	}

	for _, tag := range documented {
		if !actual[tag.Name] {
			warnings = append(warnings, fmt.Sprintf("Unknown parameter %s found in doc block", tag.Name))
		}
	}

	return warnings
}
