package uid

import (
	"strings"

	"github.com/google/uuid"
)

// NewRoomID returns a short random room identifier.
func NewRoomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
