package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadLocation(t *testing.T) {
	assert.Equal(t, "Europe/Berlin", LoadLocation("Europe/Berlin").String())
	assert.Equal(t, DefaultLibraryTimezone, LoadLocation("").String())
	assert.Equal(t, DefaultLibraryTimezone, LoadLocation("Mars/Olympus_Mons").String())
}

func TestNow_InLibraryZone(t *testing.T) {
	now := Now()
	assert.Equal(t, LibraryLocation(), now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}
