package dispatch

import (
	"fmt"
	"strings"

	"github.com/born-ml/ndarray/internal/tensor"
)

// UnimplementedError reports an operation that exists, but not in the
// requested tier.
type UnimplementedError struct {
	Op        string
	Tier      Tier
	Supported []Tier
}

// Error implements the error interface.
func (e *UnimplementedError) Error() string {
	names := make([]string, len(e.Supported))
	for i, t := range e.Supported {
		names[i] = t.String()
	}
	return fmt.Sprintf("%s: not implemented in %s tier (available in %s)",
		e.Op, e.Tier, strings.Join(names, ", "))
}

// Is makes errors.Is match tensor.ErrUnimplementedInTier.
func (e *UnimplementedError) Is(target error) bool {
	return target == tensor.ErrUnimplementedInTier
}
