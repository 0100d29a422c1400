package helper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"bibliothek_backend/internals/constants"
)

const (
	LocIdentity = "identity"
	LocRawToken = "raw_token"
)

// Identity is the verified caller of every /api/u and /api/a request.
type Identity struct {
	StaffID    int64 `json:"staff_id"`
	PersonID   int64 `json:"person_id"`
	PersonType int   `json:"person_type"`
	Privilege  int   `json:"privilege"`
}

func (i Identity) IsStaff() bool { return i.PersonType == constants.PersonStaff }

// IsPrivileged gates loan deletion and staff management.
func (i Identity) IsPrivileged() bool {
	return i.IsStaff() && i.Privilege >= constants.PrivilegeAdmin
}

func SetIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(LocIdentity, id)
}

func GetIdentity(c *fiber.Ctx) (Identity, error) {
	if id, ok := c.Locals(LocIdentity).(Identity); ok && id.StaffID > 0 {
		return id, nil
	}
	return Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - identity missing")
}

/* ======== Claims ======== */

func BuildClaims(id Identity, now time.Time, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":         "access",
		"sub":         strconv.FormatInt(id.StaffID, 10),
		"staff_id":    id.StaffID,
		"person_id":   id.PersonID,
		"person_type": id.PersonType,
		"privilege":   id.Privilege,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}
}

func IdentityFromClaims(claims jwt.MapClaims) (Identity, error) {
	staffID, err := claimInt64(claims, "staff_id")
	if err != nil {
		return Identity{}, err
	}
	if staffID <= 0 {
		return Identity{}, fmt.Errorf("staff_id must be positive")
	}
	personID, err := claimInt64(claims, "person_id")
	if err != nil {
		return Identity{}, err
	}
	personType, err := claimInt64(claims, "person_type")
	if err != nil {
		return Identity{}, err
	}
	// privilege is optional, absent means none
	privilege, _ := claimInt64(claims, "privilege")

	return Identity{
		StaffID:    staffID,
		PersonID:   personID,
		PersonType: int(personType),
		Privilege:  int(privilege),
	}, nil
}

func claimInt64(claims jwt.MapClaims, key string) (int64, error) {
	raw, ok := claims[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("claim %s missing", key)
	}
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}
	return 0, fmt.Errorf("claim %s has invalid type %T", key, raw)
}
