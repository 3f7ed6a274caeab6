package handlers

import (
	"strings"

	"agency/internal/services/auth"
	"agency/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles operator authentication and returns JWT tokens
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	user, accessToken, refreshToken, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Login successful", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
		return response.BadRequest(c, "refresh_token is required")
	}

	accessToken, refreshToken, err := h.authService.RefreshTokens(c.UserContext(), input.RefreshToken)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Tokens refreshed", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}
