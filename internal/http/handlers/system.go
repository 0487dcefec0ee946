package handlers

import (
	"net/http"
	"sync"

	intconfig "rentalgw/internal/config"
	"rentalgw/internal/services"

	"github.com/gin-gonic/gin"
)

var (
	depsMu   sync.RWMutex
	env      intconfig.Env
	registry *services.WorkflowRegistry
)

// Configure wires the handler package once at router construction.
func Configure(e intconfig.Env, r *services.WorkflowRegistry) {
	depsMu.Lock()
	defer depsMu.Unlock()
	env = e
	registry = r
}

func currentEnv() intconfig.Env {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return env
}

func currentRegistry() *services.WorkflowRegistry {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return registry
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "rental gateway running"})
}

func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not connected"})
		return
	}
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database ping failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK"})
}
