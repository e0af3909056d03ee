package output

import (
	"context"

	"weblocalizer/internal/domain/entities"
)

// Workspace owns the lifecycle of a run's working directories.
type Workspace interface {
	// Recreate removes each directory and creates it empty.
	Recreate(dirs ...string) error
}

// AssetOrganizer moves generated pages into per-language directories next to
// a copy of the image assets.
type AssetOrganizer interface {
	FindImageDir(root string) (string, error)
	Organize(outputRoot, imageDir string) ([]entities.Placement, error)
}

// Archiver unpacks uploaded archives and packs the final tree.
type Archiver interface {
	Extract(archivePath, dest string) error
	Pack(dir, archivePath string) error
}

// ReportWriter writes the human-readable run report into dir.
type ReportWriter interface {
	Write(dir string, cfg entities.RunConfig, result *entities.RunResult) (string, error)
}

// Publisher delivers the finished archive somewhere outside the workspace.
type Publisher interface {
	Publish(ctx context.Context, archivePath, message string) error
}
