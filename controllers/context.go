package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/hotel-app/services"
)

// actorFromContext membangun actor context dari klaim yang diset
// auth middleware
func actorFromContext(c *gin.Context) (services.Actor, error) {
	userIDInterface, exists := c.Get("userID")
	if !exists {
		return services.Actor{}, errors.New("user id not found in context")
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		return services.Actor{}, errors.New("invalid user id type")
	}

	roleInterface, exists := c.Get("role")
	if !exists {
		return services.Actor{}, errors.New("role not found in context")
	}
	role, ok := roleInterface.(string)
	if !ok {
		return services.Actor{}, errors.New("invalid role type")
	}

	return services.Actor{ID: userID, Role: role}, nil
}
