package handlers

import (
	"net/http"
	"strconv"

	"rentalgw/internal/clients"
	"rentalgw/internal/domain/models"
	"rentalgw/internal/http/middleware"
	"rentalgw/internal/repositories"
	"rentalgw/internal/services"

	"github.com/gin-gonic/gin"
)

func workflowService(c *gin.Context) services.WorkflowService {
	e := currentEnv()
	reqID := middleware.GetRequestID(c)

	reservations := clients.ReservationClient{
		Base:      clients.Base{BaseURL: e.ReservationAPIURL, Token: e.UpstreamToken},
		RequestID: reqID,
	}
	payments := clients.PaymentClient{
		Base:      clients.Base{BaseURL: e.PaymentAPIURL, Token: e.UpstreamToken},
		RequestID: reqID,
	}

	return services.WorkflowService{
		Reservations: reservations,
		Payments:     payments,
		Statuses:     payments,
		Store:        repositories.WorkflowRepository{},
		Registry:     currentRegistry(),
		Poller: services.PollerConfig{
			Interval:    e.PollInterval,
			MaxAttempts: e.PollMaxAttempts,
			MaxDuration: e.PollMaxDuration,
		},
		RequestID: reqID,
	}
}

// POST /api/workflows
func StartWorkflow(c *gin.Context) {
	var form models.BookingForm
	if !BindJSONOrError(c, &form) {
		return
	}

	run, err := workflowService(c).Start(c.Request.Context(), form)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"workflow_id":  run.ID,
		"booking_code": run.Request().Code,
	})
}

// GET /api/workflows/:id
func GetWorkflow(c *gin.Context) {
	run, ok := currentRegistry().Get(c.Param("id"))
	if ok {
		c.JSON(http.StatusOK, run.Snapshot())
		return
	}

	// fall back to the audit trail once the live run is gone
	rec, err := repositories.WorkflowRepository{}.GetByWorkflowID(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "workflow not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflow_id": rec.WorkflowID, "record": rec, "done": !rec.FinishedAt.IsZero()})
}

// GET /api/workflows/:id/events
func GetWorkflowEvents(c *gin.Context) {
	run, ok := currentRegistry().Get(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "workflow not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": run.Events()})
}

// POST /api/workflows/:id/abandon
func AbandonWorkflow(c *gin.Context) {
	run, ok := currentRegistry().Get(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "workflow not found", nil)
		return
	}
	run.Abandon()
	c.JSON(http.StatusOK, gin.H{"workflow_id": run.ID, "status": "abandoning"})
}

// GET /api/workflows/:id/receipt
func GetWorkflowReceipt(c *gin.Context) {
	run, ok := currentRegistry().Get(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "workflow not found", nil)
		return
	}

	summary, ok := run.Receipt()
	if !ok {
		RespondError(c, http.StatusConflict, "workflow has no settled payment", nil)
		return
	}

	request := run.Request()
	svc := services.ReceiptService{RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := svc.GenerateReceipt(services.ReceiptData{
		Summary: summary,
		Driver:  request.DriverSnapshot,
		Pickup:  request.Pickup,
		Dropoff: request.Dropoff,
		Quote:   request.Pricing,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "receipt generation failed", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GET /api/workflows
func ListWorkflows(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records, err := repositories.WorkflowRepository{}.ListRecent(limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "audit query failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}
