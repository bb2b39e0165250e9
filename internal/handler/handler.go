package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/audit"
	"github.com/malyszg/lms-sub001/internal/domain"
	"github.com/malyszg/lms-sub001/internal/dto"
	"github.com/malyszg/lms-sub001/internal/service"
)

// Handler exposes the lead intake API.
type Handler struct {
	leadService service.LeadServicer
	auditLog    audit.Logger
	router      *gin.Engine
	log         *zap.Logger
	debugErrors bool
}

// NewHandler creates the HTTP handler with all routes registered.
func NewHandler(leadService service.LeadServicer, auditLog audit.Logger, log *zap.Logger, debugErrors bool) *Handler {
	h := &Handler{
		leadService: leadService,
		auditLog:    auditLog,
		router:      gin.Default(),
		log:         log,
		debugErrors: debugErrors,
	}

	h.router.Use(h.auditMiddleware())
	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/leads", h.createLead)
	h.router.GET("/leads/:uuid", h.getLead)
	h.router.PATCH("/leads/:uuid/status", h.updateLeadStatus)
	h.router.DELETE("/leads/:uuid", h.deleteLead)
}

// auditMiddleware appends an api_request event per request. Best-effort: the
// audit logger swallows its own failures.
func (h *Handler) auditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.FullPath() == "/health" {
			return
		}

		errorMessage := ""
		if len(c.Errors) > 0 {
			errorMessage = c.Errors.String()
		}

		h.auditLog.LogAPIRequest(
			context.WithoutCancel(c.Request.Context()),
			c.Request.URL.Path,
			c.Request.Method,
			c.Writer.Status(),
			nil,
			c.ClientIP(),
			c.Request.UserAgent(),
			errorMessage,
		)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// createLead handles POST /leads
func (h *Handler) createLead(c *gin.Context) {
	var req dto.CreateLeadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid lead request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	lead, err := h.leadService.CreateLead(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, leadResponse(lead))
}

// getLead handles GET /leads/:uuid
func (h *Handler) getLead(c *gin.Context) {
	lead, err := h.leadService.GetLead(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, leadResponse(lead))
}

// updateLeadStatus handles PATCH /leads/:uuid/status
func (h *Handler) updateLeadStatus(c *gin.Context) {
	var req dto.UpdateLeadStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	lead, err := h.leadService.UpdateLeadStatus(c.Request.Context(), c.Param("uuid"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, leadResponse(lead))
}

// deleteLead handles DELETE /leads/:uuid
func (h *Handler) deleteLead(c *gin.Context) {
	if err := h.leadService.DeleteLead(c.Request.Context(), c.Param("uuid")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to HTTP statuses. Unexpected faults stay
// generic outside debug mode.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrLeadNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrDuplicateUUID):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	default:
		h.log.Error("Unhandled error", zap.Error(err))
		message := ""
		if h.debugErrors {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: message,
		})
	}
}

func leadResponse(lead *domain.Lead) dto.LeadResponse {
	resp := dto.LeadResponse{
		UUID:        lead.UUID,
		Application: lead.Application,
		Status:      lead.Status,
		CreatedAt:   lead.CreatedAt,
		Customer: dto.CustomerResponse{
			Email:     lead.Customer.Email,
			Phone:     lead.Customer.Phone,
			FirstName: lead.Customer.FirstName,
			LastName:  lead.Customer.LastName,
		},
	}
	if lead.Property != nil {
		resp.Property = &dto.PropertyResponse{
			PropertyID:    lead.Property.PropertyID,
			DevelopmentID: lead.Property.DevelopmentID,
			PartnerID:     lead.Property.PartnerID,
			PropertyType:  lead.Property.PropertyType,
			Price:         lead.Property.Price,
			Location:      lead.Property.Location,
			City:          lead.Property.City,
		}
	}
	return resp
}
