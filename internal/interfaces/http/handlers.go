package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkolari/procflow/internal/application/port"
	appwf "github.com/mkolari/procflow/internal/application/workflow"
	"github.com/mkolari/procflow/internal/domain/entity"
	domainwf "github.com/mkolari/procflow/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine   appwf.Engine
	registry port.TemplateRegistry
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(engine appwf.Engine, registry port.TemplateRegistry, logger Logger) *Handlers {
	return &Handlers{
		engine:   engine,
		registry: registry,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateProcessRequest is the payload for POST /api/processes
type CreateProcessRequest struct {
	TemplateName string          `json:"template_name" binding:"required"`
	Submitter    string          `json:"submitter" binding:"required"`
	Metadata     entity.Metadata `json:"metadata"`
}

// ChecklistUpdateRequest is the payload for POST /api/processes/:id/checklist
type ChecklistUpdateRequest struct {
	Step      string `json:"step" binding:"required"`
	Item      string `json:"item" binding:"required"`
	Completed bool   `json:"completed"`
}

// AdvanceRequest is the payload for POST /api/processes/:id/advance
type AdvanceRequest struct {
	ActorID  string `json:"actor_id" binding:"required"`
	Decision string `json:"decision"`
}

// ReassignRequest is the payload for POST /api/processes/:id/reassign
type ReassignRequest struct {
	Assignee string `json:"assignee" binding:"required"`
	ActorID  string `json:"actor_id" binding:"required"`
	Comment  string `json:"comment"`
}

// SetStatusRequest is the payload for POST /api/processes/:id/status
type SetStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	ActorID string `json:"actor_id" binding:"required"`
	Comment string `json:"comment"`
}

// SLAResponse reports the urgency classification of an instance's deadline
type SLAResponse struct {
	InstanceID string `json:"instance_id"`
	SLADue     string `json:"sla_due"`
	SLAStatus  string `json:"sla_status"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// RegisterTemplate handles POST /api/templates
func (h *Handlers) RegisterTemplate(c *gin.Context) {
	var tmpl entity.Template
	if err := c.ShouldBindJSON(&tmpl); err != nil {
		h.badRequest(c, "invalid template payload", err)
		return
	}
	if err := h.registry.Register(c.Request.Context(), &tmpl); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: tmpl})
}

// ListTemplates handles GET /api/templates
func (h *Handlers) ListTemplates(c *gin.Context) {
	templates, err := h.registry.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: templates})
}

// GetTemplate handles GET /api/templates/:name
func (h *Handlers) GetTemplate(c *gin.Context) {
	tmpl, err := h.registry.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: tmpl})
}

// CreateProcess handles POST /api/processes
func (h *Handlers) CreateProcess(c *gin.Context) {
	var req CreateProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid process payload", err)
		return
	}
	instance, err := h.engine.CreateInstance(c.Request.Context(), req.TemplateName, req.Submitter, req.Metadata)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: instance})
}

// ListProcesses handles GET /api/processes
func (h *Handlers) ListProcesses(c *gin.Context) {
	instances, err := h.engine.ListInstances(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: instances})
}

// GetProcess handles GET /api/processes/:id
func (h *Handlers) GetProcess(c *gin.Context) {
	instance, err := h.engine.GetInstance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: instance})
}

// GetHistory handles GET /api/processes/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	records, err := h.engine.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

// GetSLA handles GET /api/processes/:id/sla
func (h *Handlers) GetSLA(c *gin.Context) {
	id := c.Param("id")
	instance, err := h.engine.GetInstance(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	slaStatus, err := h.engine.SLAStatus(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: SLAResponse{
			InstanceID: id,
			SLADue:     instance.SLADue.UTC().Format(time.RFC3339),
			SLAStatus:  slaStatus.String(),
		},
	})
}

// UpdateChecklistItem handles POST /api/processes/:id/checklist
func (h *Handlers) UpdateChecklistItem(c *gin.Context) {
	var req ChecklistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid checklist payload", err)
		return
	}
	if err := h.engine.UpdateChecklistItem(c.Request.Context(), c.Param("id"), req.Step, req.Item, req.Completed); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// AdvanceStep handles POST /api/processes/:id/advance
func (h *Handlers) AdvanceStep(c *gin.Context) {
	var req AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid advance payload", err)
		return
	}
	instance, err := h.engine.AdvanceStep(c.Request.Context(), c.Param("id"), req.ActorID, domainwf.Decision(req.Decision))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: instance})
}

// Reassign handles POST /api/processes/:id/reassign
func (h *Handlers) Reassign(c *gin.Context) {
	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid reassign payload", err)
		return
	}
	if err := h.engine.Reassign(c.Request.Context(), c.Param("id"), req.Assignee, req.ActorID, req.Comment); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// SetStatus handles POST /api/processes/:id/status
func (h *Handlers) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid status payload", err)
		return
	}
	if err := h.engine.SetStatus(c.Request.Context(), c.Param("id"), domainwf.Status(req.Status), req.ActorID, req.Comment); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

func (h *Handlers) badRequest(c *gin.Context, msg string, err error) {
	h.logger.Errorw(msg, "error", err)
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// writeError maps domain errors to HTTP status codes
func (h *Handlers) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainwf.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainwf.ErrDuplicateTemplate),
		errors.Is(err, domainwf.ErrTerminalInstance),
		errors.Is(err, domainwf.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domainwf.ErrInvalidTemplate),
		errors.Is(err, domainwf.ErrInvalidMetadata):
		status = http.StatusBadRequest
	case errors.Is(err, domainwf.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domainwf.ErrChecklistIncomplete),
		errors.Is(err, domainwf.ErrDecisionRequired),
		errors.Is(err, domainwf.ErrInvalidStep):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.logger.Errorw("Request failed", "error", err)
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}
