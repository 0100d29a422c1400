package staff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminSeedFromEnv(t *testing.T) {
	t.Setenv("SEED_ADMIN_NAME", "")
	t.Setenv("SEED_ADMIN_EMAIL", "")
	t.Setenv("SEED_ADMIN_PASSWORD", "")
	_, ok := AdminSeedFromEnv()
	assert.False(t, ok)

	t.Setenv("SEED_ADMIN_EMAIL", " Root@Bib.Local ")
	t.Setenv("SEED_ADMIN_PASSWORD", "short")
	_, ok = AdminSeedFromEnv()
	assert.False(t, ok)

	t.Setenv("SEED_ADMIN_PASSWORD", "long-enough")
	s, ok := AdminSeedFromEnv()
	assert.True(t, ok)
	assert.Equal(t, "root@bib.local", s.Email)
	assert.Equal(t, "Administrator", s.Name)
}
