package routine

import (
	"strings"

	"github.com/google/uuid"
)

// NamespaceRoutineIdentity is the UUID namespace routine IDs are derived in.
var NamespaceRoutineIdentity = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sprocgen/routine-identity/v1"))

// ID returns the stable identity of a routine: a UUID v5 of its lower-cased name.
// The ID survives recompilation and moving the source file.
func ID(name string) uuid.UUID {
	return uuid.NewSHA1(NamespaceRoutineIdentity, []byte(strings.ToLower(name)))
}
