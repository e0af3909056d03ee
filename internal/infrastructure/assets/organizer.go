package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cp "github.com/otiai10/copy"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"weblocalizer/internal/domain"
	"weblocalizer/internal/domain/entities"
	"weblocalizer/internal/ports/output"
)

// ImagesDirName is the directory created next to every organized page.
const ImagesDirName = "images"

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

var fold = cases.Fold()

// NormalizeName removes spaces and case-folds name.
func NormalizeName(name string) string {
	return fold.String(strings.ReplaceAll(name, " ", ""))
}

var _ output.AssetOrganizer = (*Organizer)(nil)

type Organizer struct {
	logger *zap.Logger
}

func NewOrganizer(logger *zap.Logger) *Organizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Organizer{logger: logger.Named("assets")}
}

// FindImageDir walks root depth-first in lexical order and returns the first
// directory, root included, that directly holds an image file.
func (o *Organizer) FindImageDir(root string) (string, error) {
	if _, err := os.Stat(root); err != nil {
		return "", fmt.Errorf("images root %s: %w", root, domain.ErrMissingInput)
	}
	found := ""
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		ok, err := holdsImages(path)
		if err != nil {
			return err
		}
		if ok {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", root, err)
	}
	if found == "" {
		return "", fmt.Errorf("%s: %w", root, domain.ErrNoImages)
	}
	return found, nil
}

func holdsImages(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			return true, nil
		}
	}
	return false, nil
}

// Organize moves every page of outputRoot into the same-level directory whose
// normalized name matches the page's, creating it when absent, and copies
// imageDir into an images directory beside it. A pre-existing images directory
// aborts the pass.
func (o *Organizer) Organize(outputRoot, imageDir string) ([]entities.Placement, error) {
	if _, err := os.Stat(outputRoot); err != nil {
		return nil, fmt.Errorf("output root %s: %w", outputRoot, domain.ErrMissingInput)
	}
	if _, err := os.Stat(imageDir); err != nil {
		return nil, fmt.Errorf("image directory %s: %w", imageDir, domain.ErrMissingInput)
	}

	entries, err := os.ReadDir(outputRoot)
	if err != nil {
		return nil, err
	}
	var pages []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".html") {
			pages = append(pages, e.Name())
		}
	}
	sort.Strings(pages)

	var placements []entities.Placement
	for _, page := range pages {
		normalized := NormalizeName(strings.TrimSuffix(page, ".html"))
		dest, err := matchingDir(outputRoot, normalized)
		if err != nil {
			return placements, err
		}
		if dest == "" {
			dest = filepath.Join(outputRoot, normalized)
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return placements, fmt.Errorf("create %s: %w", dest, err)
			}
		}

		target := filepath.Join(dest, page)
		if _, err := os.Lstat(target); err == nil {
			return placements, fmt.Errorf("move %s: %s: %w", page, target, domain.ErrDestinationExists)
		}
		if err := os.Rename(filepath.Join(outputRoot, page), target); err != nil {
			return placements, fmt.Errorf("move %s: %w", page, err)
		}

		images := filepath.Join(dest, ImagesDirName)
		if err := copyImages(imageDir, images); err != nil {
			return placements, err
		}
		placements = append(placements, entities.Placement{Page: target, Dir: dest, ImagesDir: images})
		o.logger.Info("organized page",
			zap.String("page", page),
			zap.String("dir", dest),
			zap.String("images_from", imageDir),
		)
	}
	return placements, nil
}

// matchingDir returns the first directory of root whose normalized name equals
// normalized, or "".
func matchingDir(root, normalized string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() && NormalizeName(e.Name()) == normalized {
			return filepath.Join(root, e.Name()), nil
		}
	}
	return "", nil
}

func copyImages(src, dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("copy images to %s: %w", dest, domain.ErrDestinationExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("copy images to %s: %w", dest, err)
	}
	err := cp.Copy(src, dest, cp.Options{
		OnSymlink: func(string) cp.SymlinkAction { return cp.Shallow },
	})
	if err != nil {
		return fmt.Errorf("copy images to %s: %w", dest, err)
	}
	return nil
}
