package grid

import (
	"log/slog"
	"os"
)

// logger is the destination for the façade's "caller misuse" warnings (spec §7):
// stepping an uninitialized grid, or snapshotting a texture with zero size.
// Overridable so embedding applications can route it through their own handler,
// the same shape as the teacher's logWriter (game/logging.go) but built on the
// structured logger the rest of the teacher's packages already use
// (telemetry/stats.go, game/game.go).
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger overrides the package-level logger used for caller-misuse warnings.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}
