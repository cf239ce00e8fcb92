package http

import (
	"os"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the bare engine: release mode unless GIN_MODE says
// otherwise, panic recovery, no default request logging (slog owns stdout).
func NewRouter() *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}
