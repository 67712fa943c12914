package models

import "github.com/golang-jwt/jwt/v5"

// UserRole distinguishes students from staff acting on their behalf.
type UserRole string

// Supported roles.
const (
	RoleStudent UserRole = "STUDENT"
	RoleAdvisor UserRole = "ADVISOR"
	RoleAdmin   UserRole = "ADMIN"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	StudentID string   `json:"student_id"`
	Role      UserRole `json:"role"`
	FullName  string   `json:"full_name"`
	jwt.RegisteredClaims
}

// CanActFor reports whether the caller may drive the conversation of studentID.
func (c *JWTClaims) CanActFor(studentID string) bool {
	if c == nil {
		return false
	}
	if c.Role == RoleAdvisor || c.Role == RoleAdmin {
		return true
	}
	return c.StudentID == studentID
}
