package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bibliothek_backend/internals/constants"
	"bibliothek_backend/internals/features/users/auth/repository"
	helpersAuth "bibliothek_backend/internals/helpers/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrNotStaff           = errors.New("only staff members may sign in")
)

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// compareDummy burns the same bcrypt time as a real check when the email is unknown.
func compareDummy(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Authenticate resolves an active staff account from email and password.
func Authenticate(ctx context.Context, db *gorm.DB, email, password string) (*repository.StaffAccount, error) {
	acc, err := repository.FindStaffByEmail(ctx, db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		compareDummy(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckAccount(acc, password); err != nil {
		return nil, err
	}
	return acc, nil
}

// CheckAccount verifies the password first so inactive accounts do not leak to guessers.
func CheckAccount(acc *repository.StaffAccount, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(acc.StaffPasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	if acc.PersonSituacao != constants.SituacaoActive {
		return ErrAccountInactive
	}
	if acc.PersonType != constants.PersonStaff {
		return ErrNotStaff
	}
	return nil
}

func IdentityOf(acc *repository.StaffAccount) helpersAuth.Identity {
	return helpersAuth.Identity{
		StaffID:    acc.StaffID,
		PersonID:   acc.StaffPersonID,
		PersonType: acc.PersonType,
		Privilege:  acc.StaffPrivilege,
	}
}

// IssueToken signs an HS256 access token for id.
func IssueToken(id helpersAuth.Identity, secret string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}
	claims := helpersAuth.BuildClaims(id, now, ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, time.Unix(now.Add(ttl).Unix(), 0), nil
}

// TokenExpiry returns the exp of a still valid token signed with secret.
// Expired or foreign tokens need no blacklisting, so they report ok=false.
func TokenExpiry(raw, secret string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}
