package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

const RoleReviewer = "reviewer"

type AccessClaims struct {
	ReviewerID string
	Role       string
	ExpiresAt  time.Time
}
