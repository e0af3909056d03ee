package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"weblocalizer/internal/application"
	"weblocalizer/internal/domain/entities"
	"weblocalizer/internal/infrastructure/logging"
	"weblocalizer/internal/ports/input"
	"weblocalizer/internal/ports/output"
	"weblocalizer/pkg/substitute"
)

const (
	defaultTimeout   = 10 * time.Minute
	multipartMemory  = 8 << 20
	defaultMaxUpload = 64 << 20
)

var errBadUpload = errors.New("bad upload")

// Options configures a Server.
type Options struct {
	// WorkRoot holds one directory per run, removed once the archive is sent.
	WorkRoot string
	// MaxUpload caps the request body in bytes.
	MaxUpload int64
	// Defaults seeds every run; upload fields override languages, base,
	// mode and locale.
	Defaults entities.RunConfig
}

// Server exposes the localization run over HTTP. Runs are executed one at a
// time.
type Server struct {
	useCase    input.LocalizeUseCase
	translator output.T
	logger     *zap.Logger
	opts       Options
	mu         sync.Mutex
	newID      func() string
}

func NewServer(useCase input.LocalizeUseCase, translator output.T, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = defaultMaxUpload
	}
	if opts.WorkRoot == "" {
		opts.WorkRoot = os.TempDir()
	}
	return &Server{
		useCase:    useCase,
		translator: translator,
		logger:     logger.Named("http"),
		opts:       opts,
		newID:      func() string { return ulid.Make().String() },
	}
}

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Post("/runs", s.handleRun)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := s.logger.With(
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), logger)))
		logger.Info("request completed",
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

func (s *Server) t(locale, key string, data map[string]any) string {
	if s.translator == nil {
		return key
	}
	return s.translator.T(locale, key, data)
}

// requestLocale prefers the locale form field, then Accept-Language.
func requestLocale(r *http.Request, fallback string) string {
	if v := strings.TrimSpace(r.FormValue("locale")); v != "" {
		return v
	}
	return acceptLocale(r, fallback)
}

func acceptLocale(r *http.Request, fallback string) string {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err == nil && len(tags) > 0 {
		return tags[0].String()
	}
	return fallback
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	locale := s.opts.Defaults.ReportLocale

	if !s.mu.TryLock() {
		s.writeError(w, r, "busy", s.t(acceptLocale(r, locale), "http.run.busy", nil), http.StatusConflict)
		return
	}
	defer s.mu.Unlock()

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeRunError(w, r, locale, fmt.Errorf("%w: %v", errBadUpload, err))
		return
	}
	defer r.MultipartForm.RemoveAll()
	locale = requestLocale(r, locale)

	runID := s.newID()
	runDir := filepath.Join(s.opts.WorkRoot, runID)
	defer os.RemoveAll(runDir)

	cfg, err := s.buildRunConfig(r, runDir)
	if err != nil {
		s.writeRunError(w, r, locale, err)
		return
	}
	cfg.ReportLocale = locale

	logger = logger.With(zap.String("run_id", runID))
	logger.Info("run started", zap.Strings("languages", cfg.Languages), zap.String("base", cfg.BaseLanguage))
	result, err := s.useCase.Run(r.Context(), cfg)
	if err != nil {
		logger.Warn("run failed", zap.Error(err))
		s.writeRunError(w, r, locale, err)
		return
	}

	archive, err := os.Open(result.ArchivePath)
	if err != nil {
		s.writeRunError(w, r, locale, err)
		return
	}
	defer archive.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(result.ArchivePath)))
	w.Header().Set("X-Run-ID", runID)
	w.Header().Set("X-Run-Pages", strconv.Itoa(len(result.Placements)))
	w.Header().Set("X-Run-Warnings", strconv.Itoa(len(result.Warnings)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, archive); err != nil {
		logger.Warn("archive stream interrupted", zap.Error(err))
	}
}

// buildRunConfig stores the uploaded files under runDir and returns the run
// description.
func (s *Server) buildRunConfig(r *http.Request, runDir string) (entities.RunConfig, error) {
	cfg := s.opts.Defaults
	cfg.Layout = entities.NewLayout(runDir)
	cfg.ArchivePath = cfg.Layout.ArchivePath()
	if cfg.HeaderMarker == (entities.FragmentMarker{}) {
		cfg.HeaderMarker = entities.HeaderMarker
	}
	if cfg.FooterMarker == (entities.FragmentMarker{}) {
		cfg.FooterMarker = entities.FooterMarker
	}

	inputs := filepath.Join(runDir, "inputs")
	if err := os.MkdirAll(inputs, 0o755); err != nil {
		return cfg, err
	}

	uploads := []struct {
		field string
		ext   string
		dst   *string
	}{
		{"workbook", ".xlsx", &cfg.WorkbookPath},
		{"template", ".html", &cfg.TemplatePath},
		{"fragments", ".zip", &cfg.FragmentsPath},
		{"images", ".zip", &cfg.ImagesPath},
	}
	for _, u := range uploads {
		path, err := saveUpload(r, u.field, filepath.Join(inputs, u.field+u.ext))
		if err != nil {
			return cfg, err
		}
		*u.dst = path
	}

	langs, err := uploadedLanguages(r)
	if err != nil {
		return cfg, err
	}
	if len(langs) > 0 {
		cfg.Languages = langs
	}
	if base := strings.TrimSpace(r.FormValue("base")); base != "" {
		cfg.BaseLanguage = base
	}
	if v := r.FormValue("mode"); v != "" {
		mode, err := substitute.ParseMode(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", errBadUpload, err)
		}
		cfg.Sequential = mode == substitute.Sequential
	}
	return cfg, nil
}

func saveUpload(r *http.Request, field, dest string) (string, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("%w: field %q: %v", errBadUpload, field, err)
	}
	defer file.Close()
	if err := writeFile(file, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func writeFile(src multipart.File, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// uploadedLanguages reads the languages field, either a newline-delimited
// file or a text value separated by newlines or commas.
func uploadedLanguages(r *http.Request) ([]string, error) {
	if file, _, err := r.FormFile("languages"); err == nil {
		defer file.Close()
		return application.ParseLanguageList(file)
	}
	text := strings.ReplaceAll(r.FormValue("languages"), ",", "\n")
	return application.ParseLanguageList(strings.NewReader(text))
}
