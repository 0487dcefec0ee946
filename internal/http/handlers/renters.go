package handlers

import (
	"net/http"

	"rentalgw/internal/clients"
	"rentalgw/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// GetRenters proxies the user collaborator so the dashboard can prefill
// driver snapshots.
func GetRenters(c *gin.Context) {
	e := currentEnv()
	client := clients.UserClient{
		Base:      clients.Base{BaseURL: e.UserAPIURL, Token: e.UpstreamToken},
		RequestID: middleware.GetRequestID(c),
	}

	renters, err := client.ListRenters(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusBadGateway, "user service unavailable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": renters})
}
