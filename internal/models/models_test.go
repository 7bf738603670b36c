package models

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestIdentityCanModify(t *testing.T) {
	owner := Identity{ID: 1, Role: RoleUser}
	stranger := Identity{ID: 2, Role: RoleUser}
	admin := Identity{ID: 3, Role: RoleAdmin}

	assert.True(t, owner.CanModify(1))
	assert.False(t, stranger.CanModify(1))
	assert.True(t, admin.CanModify(1), "admins may modify any resource")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NewNotFoundError("Post", 1), fiber.StatusNotFound},
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{NewForbiddenError("no"), fiber.StatusForbidden},
		{NewConflictError("dup"), fiber.StatusConflict},
		{NewInternalError(assert.AnError), fiber.StatusInternalServerError},
		{assert.AnError, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFor(tt.err))
	}
}
