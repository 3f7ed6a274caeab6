package models

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Application permissions
const (
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	PermissionCardRead    = "card:read"
	PermissionCardWrite   = "card:write"
	PermissionPolicyRead  = "policy:read"
	PermissionPolicyWrite = "policy:write"

	PermissionReconcile = "reconcile:run"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
	TokenType    string   `json:"token_type"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionCardRead,
			PermissionCardWrite,
			PermissionPolicyRead,
			PermissionPolicyWrite,
			PermissionReconcile,
		}
	case RoleAgent:
		return []string{
			PermissionCardRead,
			PermissionPolicyRead,
			PermissionPolicyWrite,
		}
	default:
		return []string{}
	}
}
