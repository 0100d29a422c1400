package model

import "time"

// TokenBlacklistModel stores HMAC digests of logged-out tokens until they expire.
type TokenBlacklistModel struct {
	TokenBlacklistID        int64     `gorm:"primaryKey;autoIncrement;column:token_blacklist_id"             json:"token_blacklist_id"`
	TokenBlacklistToken     string    `gorm:"type:text;not null;uniqueIndex;column:token_blacklist_token"    json:"-"`
	TokenBlacklistExpiredAt time.Time `gorm:"not null;index;column:token_blacklist_expired_at"               json:"token_blacklist_expired_at"`
	TokenBlacklistCreatedAt time.Time `gorm:"column:token_blacklist_created_at;autoCreateTime"               json:"token_blacklist_created_at"`
}

func (TokenBlacklistModel) TableName() string { return "token_blacklist" }
