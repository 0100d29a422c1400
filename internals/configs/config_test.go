package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("BIB_STR", "")
	assert.Equal(t, "fallback", GetEnv("BIB_STR", "fallback"))
	t.Setenv("BIB_STR", "set")
	assert.Equal(t, "set", GetEnv("BIB_STR", "fallback"))

	t.Setenv("BIB_INT", "x")
	assert.Equal(t, 7, GetEnvInt("BIB_INT", 7))
	t.Setenv("BIB_INT", "12")
	assert.Equal(t, 12, GetEnvInt("BIB_INT", 7))

	t.Setenv("BIB_DUR", "-5s")
	assert.Equal(t, 5*time.Second, GetEnvDuration("BIB_DUR", 5*time.Second))
	t.Setenv("BIB_DUR", "750ms")
	assert.Equal(t, 750*time.Millisecond, GetEnvDuration("BIB_DUR", 5*time.Second))

	t.Setenv("BIB_LIST", "")
	assert.Equal(t, []string{"a"}, GetEnvList("BIB_LIST", "a"))
	t.Setenv("BIB_LIST", " https://a.test , ,https://b.test")
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, GetEnvList("BIB_LIST"))
}

func TestTrustedProxies_DefaultTrustsNone(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")
	assert.Empty(t, TrustedProxies())

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, TrustedProxies())
}

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_TTL", "")
	t.Setenv("LOAN_TX_TIMEOUT", "")
	t.Setenv("PORT", "")
	LoadEnv()

	assert.Equal(t, "s", JWTSecret)
	assert.Equal(t, 30*24*time.Hour, JWTTTL)
	assert.Equal(t, 5*time.Second, LoanTxTimeout)
	assert.Equal(t, "3000", Port)
}
