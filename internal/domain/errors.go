package domain

import "errors"

// Domain errors.
var (
	ErrMissingInput        = errors.New("input path does not exist")
	ErrNoLanguages         = errors.New("no language keywords provided")
	ErrBaseLanguageMissing = errors.New("base language column not found in workbook")
	ErrNoHeaderRow         = errors.New("no header row found in search window")
	ErrNoImages            = errors.New("no directory containing images found")
	ErrDestinationExists   = errors.New("destination already exists")
	ErrInvalidArchivePath  = errors.New("archive entry escapes destination")
	ErrNoPagesProduced     = errors.New("no localized pages were produced")
	ErrPublisherDisabled   = errors.New("publisher is not configured")
)

var codes = map[error]string{
	ErrMissingInput:        "missing_input",
	ErrNoLanguages:         "no_languages",
	ErrBaseLanguageMissing: "base_language_missing",
	ErrNoHeaderRow:         "no_header_row",
	ErrNoImages:            "no_images",
	ErrDestinationExists:   "destination_exists",
	ErrInvalidArchivePath:  "invalid_archive_path",
	ErrNoPagesProduced:     "no_pages_produced",
	ErrPublisherDisabled:   "publisher_disabled",
}

// Code returns the stable code of the first domain error wrapped by err, or ""
// when err does not wrap one.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for target, code := range codes {
		if errors.Is(err, target) {
			return code
		}
	}
	return ""
}
