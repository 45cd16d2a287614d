package collections

import (
	"strings"

	"github.com/google/uuid"
)

// NewPID returns a short professional identifier such as "P-1A2B3C4D".
func NewPID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "P-" + strings.ToUpper(id[:8])
}
