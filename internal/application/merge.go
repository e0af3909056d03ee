package application

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"weblocalizer/internal/domain"
	"weblocalizer/internal/domain/entities"
	"weblocalizer/pkg/fragment"
)

// FragmentIndex is the page inside each fragment directory that carries the
// header and footer regions.
const FragmentIndex = "index.html"

var fold = cases.Fold()

// matchKey normalizes fragment directory names and page stems the same way:
// spaces and underscores are dropped and case is folded.
func matchKey(name string) string {
	name = strings.NewReplacer(" ", "", "_", "").Replace(name)
	return fold.String(name)
}

// MergeResult maps every page written to the output directory (by file name)
// to its path, plus the warnings raised along the way.
type MergeResult struct {
	Pages    map[string]string
	Warnings []string
}

// warn logs msg and records it with its key/value pairs.
func (r *MergeResult) warn(logger *zap.Logger, msg string, kv ...string) {
	fields := make([]zap.Field, 0, len(kv)/2)
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, zap.String(kv[i], kv[i+1]))
		fmt.Fprintf(&b, " %s=%s", kv[i], kv[i+1])
	}
	logger.Warn(msg, fields...)
	r.Warnings = append(r.Warnings, b.String())
}

// MergeFragments walks fragmentsRoot and, for each directory whose name matches
// a page of htmlDir, copies the header and footer regions of the directory's
// index.html into that page and writes the result to outputDir. Pages without
// a fragment directory are not written.
func MergeFragments(fragmentsRoot, htmlDir, outputDir string, header, footer entities.FragmentMarker, logger *zap.Logger) (*MergeResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, dir := range []string{fragmentsRoot, htmlDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("merge fragments: %s: %w", dir, domain.ErrMissingInput)
		}
	}

	pages, err := listPages(htmlDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("merge fragments: %w", err)
	}

	result := &MergeResult{Pages: map[string]string{}}
	root := filepath.Clean(fragmentsRoot)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}
		page := findPage(pages, d.Name())
		if page == "" {
			result.warn(logger, "no page matches fragment directory", "dir", d.Name())
			return nil
		}
		out, ok, err := mergePage(path, filepath.Join(htmlDir, page), filepath.Join(outputDir, page), header, footer, result, logger)
		if err != nil {
			return err
		}
		if ok {
			result.Pages[page] = out
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("merge fragments: %w", err)
	}

	for _, page := range pages {
		if _, ok := result.Pages[page]; !ok {
			result.warn(logger, "page has no fragment directory and was not produced", "page", page)
		}
	}
	return result, nil
}

func listPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
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
	return pages, nil
}

func findPage(pages []string, dirName string) string {
	want := matchKey(dirName)
	for _, p := range pages {
		if matchKey(strings.TrimSuffix(p, ".html")) == want {
			return p
		}
	}
	return ""
}

func mergePage(fragmentDir, pagePath, outPath string, header, footer entities.FragmentMarker, result *MergeResult, logger *zap.Logger) (string, bool, error) {
	index, err := os.ReadFile(filepath.Join(fragmentDir, FragmentIndex))
	if err != nil {
		if os.IsNotExist(err) {
			result.warn(logger, "index.html not found in fragment directory", "dir", fragmentDir)
			return "", false, nil
		}
		return "", false, err
	}
	page, err := os.ReadFile(pagePath)
	if err != nil {
		return "", false, err
	}

	doc := string(page)
	name := filepath.Base(pagePath)
	for _, region := range []struct {
		label  string
		marker entities.FragmentMarker
	}{
		{"header", header},
		{"footer", footer},
	} {
		content, ok := fragment.Extract(string(index), region.marker)
		if !ok {
			result.warn(logger, "fragment region missing, page keeps its own",
				"region", region.label, "dir", fragmentDir)
			continue
		}
		spliced, ok := fragment.Splice(doc, content, region.marker)
		if !ok {
			result.warn(logger, "page has no region markers, fragment not applied",
				"region", region.label, "page", name)
			continue
		}
		doc = spliced
	}

	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return "", false, err
	}
	logger.Info("merged fragments", zap.String("page", name), zap.String("dir", fragmentDir))
	return outPath, true, nil
}
