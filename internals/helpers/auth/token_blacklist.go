package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Tokens are stored as HMAC(token, secret) so a leaked table cannot be replayed.
func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

func BlacklistToken(ctx context.Context, db *gorm.DB, rawToken, secret string, expiresAt time.Time) error {
	if db == nil || strings.TrimSpace(rawToken) == "" || strings.TrimSpace(secret) == "" {
		return nil
	}
	return db.WithContext(ctx).Exec(`
		INSERT INTO token_blacklist (token_blacklist_token, token_blacklist_expired_at, token_blacklist_created_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (token_blacklist_token) DO UPDATE
		SET token_blacklist_expired_at = EXCLUDED.token_blacklist_expired_at
	`, hmacHex(rawToken, secret), expiresAt).Error
}

func IsBlacklisted(ctx context.Context, db *gorm.DB, rawToken, secret string) (bool, error) {
	if db == nil || strings.TrimSpace(rawToken) == "" || strings.TrimSpace(secret) == "" {
		return false, nil
	}
	var exists bool
	err := db.WithContext(ctx).Raw(`
		SELECT EXISTS (
		  SELECT 1 FROM token_blacklist
		  WHERE token_blacklist_token = ?
		    AND token_blacklist_expired_at > NOW()
		)
	`, hmacHex(rawToken, secret)).Scan(&exists).Error
	return exists, err
}

func PurgeExpiredBlacklist(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM token_blacklist WHERE token_blacklist_expired_at <= NOW()`)
	return res.RowsAffected, res.Error
}
