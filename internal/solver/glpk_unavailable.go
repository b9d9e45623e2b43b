//go:build !glpk

package solver

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Without the "glpk" build tag there is no cgo backend to prefer.
func preferredBackend(time.Duration, *logrus.Logger) Backend {
	return nil
}
