package dbtime

import (
	"log"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"bibliothek_backend/internals/configs"
)

const DefaultLibraryTimezone = "America/Sao_Paulo"

var (
	locOnce sync.Once
	loc     *time.Location
)

// LoadLocation resolves name, then the default zone, then UTC.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultLibraryTimezone
	}
	if l, err := time.LoadLocation(name); err == nil {
		return l
	}
	log.Printf("[TIME] unknown timezone %q, trying %s", name, DefaultLibraryTimezone)
	if l, err := time.LoadLocation(DefaultLibraryTimezone); err == nil {
		return l
	}
	return time.UTC
}

// LibraryLocation is the zone from LIBRARY_TZ (or TZ), loaded once.
func LibraryLocation() *time.Location {
	locOnce.Do(func() {
		loc = LoadLocation(configs.GetEnv("LIBRARY_TZ", configs.GetEnv("TZ")))
	})
	return loc
}

// Now is the wall clock in the library's zone; loan "today" derives from it.
func Now() time.Time {
	return time.Now().In(LibraryLocation())
}
