package main

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// playerIDFrom picks the player id for a request: the explicit value (body or path)
// first, then the X-Player-Id header. An empty result is mapped to the anonymous
// player by the session tracker. The server never issues ids itself.
func playerIDFrom(c *gin.Context, explicit string) string {
	if id := strings.TrimSpace(explicit); id != "" {
		return id
	}
	return strings.TrimSpace(c.GetHeader(PlayerIDHeader))
}
