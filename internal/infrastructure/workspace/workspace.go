package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"weblocalizer/internal/ports/output"
)

var _ output.Workspace = (*Dirs)(nil)

// Dirs wipes and recreates the per-run working directories.
type Dirs struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Dirs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dirs{logger: logger.Named("workspace")}
}

// Recreate removes each directory with its contents, then creates it empty.
func (d *Dirs) Recreate(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		clean := filepath.Clean(dir)
		if clean == "." || clean == string(filepath.Separator) {
			return fmt.Errorf("refusing to recreate %q", dir)
		}
		if _, err := os.Lstat(clean); err == nil {
			if err := os.RemoveAll(clean); err != nil {
				return fmt.Errorf("remove %s: %w", clean, err)
			}
			d.logger.Debug("directory removed", zap.String("dir", clean))
		}
		if err := os.MkdirAll(clean, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", clean, err)
		}
		d.logger.Debug("directory created", zap.String("dir", clean))
	}
	return nil
}
