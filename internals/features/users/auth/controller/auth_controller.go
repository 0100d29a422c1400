package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bibliothek_backend/internals/configs"
	"bibliothek_backend/internals/features/users/auth/dto"
	"bibliothek_backend/internals/features/users/auth/repository"
	"bibliothek_backend/internals/features/users/auth/service"
	helper "bibliothek_backend/internals/helpers"
	helpersAuth "bibliothek_backend/internals/helpers/auth"
	authMiddleware "bibliothek_backend/internals/middlewares/auth"
)

type AuthController struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB:     db,
		Secret: configs.JWTSecret,
		TTL:    configs.JWTTTL,
		Now:    time.Now,
	}
}

var validate = helper.NewValidator()

func (ac *AuthController) setTokenCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     authMiddleware.TokenCookie,
		Value:    value,
		HTTPOnly: true,
		Secure:   configs.GetEnv("COOKIE_SECURE", "true") == "true",
		SameSite: "Lax",
		Path:     "/",
		Expires:  expires,
	})
}

/* =========================================================
   POST /api/auth/login
========================================================= */
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationFailed(c, err)
	}

	acc, err := service.Authenticate(c.UserContext(), ac.DB, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountInactive), errors.Is(err, service.ErrNotStaff):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case err != nil:
		log.Printf("[AUTH][LOGIN] lookup failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "login failed")
	}

	token, exp, err := service.IssueToken(service.IdentityOf(acc), ac.Secret, ac.Now(), ac.TTL)
	if err != nil {
		log.Printf("[AUTH][LOGIN] sign failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "login failed")
	}
	ac.setTokenCookie(c, token, exp)

	log.Printf("[AUTH][LOGIN] staff_id=%d", acc.StaffID)
	return helper.JsonOK(c, "login successful", dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		Staff:     dto.ToMeResponse(acc),
	})
}

/* =========================================================
   GET /api/auth/me   (behind AuthJWT)
========================================================= */
func (ac *AuthController) Me(c *fiber.Ctx) error {
	id, err := helpersAuth.GetIdentity(c)
	if err != nil {
		return err
	}
	acc, err := repository.FindStaffByID(c.UserContext(), ac.DB, id.StaffID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "staff account not found")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load account")
	}
	return helper.JsonOK(c, "ok", dto.ToMeResponse(acc))
}

/* =========================================================
   POST /api/auth/logout
   Idempotent: clears the cookie and revokes the token until its exp.
========================================================= */
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw := authMiddleware.ExtractToken(c, true)
	if raw != "" {
		if exp, ok := service.TokenExpiry(raw, ac.Secret); ok {
			if err := helpersAuth.BlacklistToken(c.UserContext(), ac.DB, raw, ac.Secret, exp); err != nil {
				log.Printf("[AUTH][LOGOUT] blacklist failed: %v", err)
				return helper.JsonError(c, fiber.StatusInternalServerError, "logout failed")
			}
		}
	}

	expired := ac.Now().Add(-time.Hour)
	ac.setTokenCookie(c, "", expired)
	return helper.JsonOK(c, "logout successful", nil)
}
