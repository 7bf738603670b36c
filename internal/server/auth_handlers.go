package server

import (
	"strconv"
	"time"

	"github.com/asad-as1/BlogBuddy/internal/middleware"
	"github.com/asad-as1/BlogBuddy/internal/models"
	"github.com/asad-as1/BlogBuddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "blogbuddy-api"
	tokenAudience = "blogbuddy-client"
	tokenLifetime = 7 * 24 * time.Hour
)

// generateToken issues a signed credential for the user, valid for 7 days.
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenLifetime).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// setTokenCookie stores the credential in the token cookie for browser
// clients. API clients can use the Bearer header instead.
func (s *Server) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(tokenLifetime),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: "Lax",
		Path:     "/",
	})
}

// Register handles POST /user/register
func (s *Server) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.Context(), input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		middleware.Logger.ErrorContext(c.Context(), "token generation failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setTokenCookie(c, token)

	middleware.Logger.InfoContext(c.Context(), "user registered",
		"user_id", user.ID,
		"username", user.Username,
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login handles POST /user/login
func (s *Server) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Login(c.Context(), input.Username, input.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		middleware.Logger.ErrorContext(c.Context(), "token generation failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setTokenCookie(c, token)

	middleware.Logger.InfoContext(c.Context(), "user logged in", "user_id", user.ID)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (s *Server) clearTokenCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: "Lax",
		Path:     "/",
	})
}

// Logout handles POST /user/logout. The credential is stateless, so logout
// only clears the cookie; Bearer clients simply discard the token.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearTokenCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// CheckAuth handles GET /user/check-auth. Reaching it through the auth
// middleware already proves the credential resolves to a live user.
func (s *Server) CheckAuth(c *fiber.Ctx) error {
	identity := identityFromCtx(c)
	return c.JSON(fiber.Map{
		"authenticated": true,
		"user": fiber.Map{
			"id":       identity.ID,
			"username": identity.Username,
			"role":     identity.Role,
		},
	})
}
