package tz

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Default is the zone report timestamps use when none is configured.
const Default = "Europe/Paris"

// Load resolves an IANA zone name. An empty name selects Default.
func Load(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = Default
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// Stamp formats t in loc, or in UTC when loc is nil.
func Stamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04:05 MST")
}
