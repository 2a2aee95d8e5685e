package api

import (
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"shippio-service/shipments"
)

// UserIDHeader carries the caller identity for read operations.
const UserIDHeader = "user-id"

type ShipmentOperations interface {
	List(ctx context.Context, requesterID string) (any, error)
	GetByReference(ctx context.Context, requesterID string, referenceName string) (any, error)
	Create(ctx context.Context, input shipments.ShipmentInput) (uint, error)
	Update(ctx context.Context, input shipments.UpdateInput) (*shipments.UpdateSummary, error)
}

type ShipmentHandler struct {
	logger     *zap.Logger
	operations ShipmentOperations
}

func NewShipmentHandler(logger *zap.Logger, operations ShipmentOperations) *ShipmentHandler {
	return &ShipmentHandler{logger: logger, operations: operations}
}

func (h *ShipmentHandler) Register(router gin.IRouter) {
	router.GET("/shipments", h.HandleList)
	router.GET("/shipments/:internal_reference_name", h.HandleGetByReference)
	router.POST("/shipments", h.HandleCreate)
	router.PUT("/shipments", h.HandleUpdate)
}

func (h *ShipmentHandler) HandleList(c *gin.Context) {
	rows, err := h.operations.List(c.Request.Context(), c.GetHeader(UserIDHeader))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ShipmentHandler) HandleGetByReference(c *gin.Context) {
	rows, err := h.operations.GetByReference(c.Request.Context(), c.GetHeader(UserIDHeader), c.Param("internal_reference_name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ShipmentHandler) HandleCreate(c *gin.Context) {
	var input shipments.ShipmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	id, err := h.operations.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, id)
}

func (h *ShipmentHandler) HandleUpdate(c *gin.Context) {
	var input shipments.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	summary, err := h.operations.Update(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ShipmentHandler) respondBadRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

func (h *ShipmentHandler) respondError(c *gin.Context, err error) {
	var opErr *shipments.Error
	if errors.As(err, &opErr) {
		c.JSON(opErr.Status, gin.H{"error": opErr.Message})
		return
	}

	h.logger.Error("Unexpected operation error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
