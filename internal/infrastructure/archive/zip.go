package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"weblocalizer/internal/domain"
	"weblocalizer/internal/ports/output"
)

var _ output.Archiver = (*Zip)(nil)

// Zip unpacks uploaded archives and packs the output tree.
type Zip struct {
	logger *zap.Logger
}

func NewZip(logger *zap.Logger) *Zip {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zip{logger: logger.Named("archive")}
}

// Extract unpacks archivePath into dest. Entries that would land outside dest
// are rejected before anything is written for them.
func (z *Zip) Extract(archivePath, dest string) error {
	r, err := zip.OpenReader(archivePath)
	if errors.Is(err, zip.ErrInsecurePath) {
		if r != nil {
			r.Close()
		}
		return fmt.Errorf("open archive %s: %w", archivePath, domain.ErrInvalidArchivePath)
	}
	if err != nil {
		return fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer r.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", root, err)
	}

	files := 0
	for _, f := range r.File {
		target, err := safeJoin(root, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if f.Mode()&fs.ModeSymlink != 0 {
			z.logger.Warn("skipping symlink entry", zap.String("entry", f.Name))
			continue
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
		files++
	}
	z.logger.Info("extracted archive",
		zap.String("archive", archivePath),
		zap.String("dest", root),
		zap.Int("files", files),
	)
	return nil
}

func safeJoin(root, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%s: %w", name, domain.ErrInvalidArchivePath)
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", name, domain.ErrInvalidArchivePath)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// Pack writes every regular file below dir into archivePath. Entry names are
// relative to dir's parent, so the archive opens onto a single top-level
// directory. Symlinked files are stored with their target's content;
// symlinked directories are not followed.
func (z *Zip) Pack(dir, archivePath string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("pack %s: %w", dir, domain.ErrMissingInput)
	}
	base := filepath.Dir(filepath.Clean(dir))

	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", archivePath, err)
	}
	w := zip.NewWriter(out)

	files := 0
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		if err := addFile(w, path, filepath.ToSlash(rel), fi); err != nil {
			return fmt.Errorf("add %s: %w", rel, err)
		}
		files++
		return nil
	})
	if walkErr != nil {
		w.Close()
		out.Close()
		return walkErr
	}
	if err := w.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	z.logger.Info("packed archive", zap.String("archive", archivePath), zap.Int("files", files))
	return nil
}

func addFile(w *zip.Writer, path, name string, fi fs.FileInfo) error {
	header, err := zip.FileInfoHeader(fi)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	dst, err := w.CreateHeader(header)
	if err != nil {
		return err
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(dst, src)
	return err
}
