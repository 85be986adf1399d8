package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/movements/dispatch"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// DispatchHandler handles HTTP requests for dispatch records.
type DispatchHandler struct {
	*BaseHandler
	service *dispatch.Service
}

// NewDispatchHandler creates a new dispatch handler.
func NewDispatchHandler(base *BaseHandler, service *dispatch.Service) *DispatchHandler {
	return &DispatchHandler{BaseHandler: base, service: service}
}

// Create handles POST /dispatches.
func (h *DispatchHandler) Create(c *gin.Context) {
	var req dto.CreateDispatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, _ := id.Parse(req.ItemID)
	customerID, _ := id.Parse(req.CustomerID)

	d, err := h.service.Create(c.Request.Context(), dispatch.CreateCommand{
		ItemID:            itemID,
		CustomerID:        customerID,
		DocumentNo:        req.DocumentNo,
		ApprovedQty:       req.ApprovedQty,
		CustomerReturnQty: req.CustomerReturnQty,
		RejectQty:         req.RejectQty,
		Date:              req.Date,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromDispatch(d))
}

// Get handles GET /dispatches/:id.
func (h *DispatchHandler) Get(c *gin.Context) {
	dispatchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), dispatchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDispatch(d))
}

// Update handles PUT /dispatches/:id.
func (h *DispatchHandler) Update(c *gin.Context) {
	dispatchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateDispatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd := dispatch.UpdateCommand{
		Date:              req.Date,
		DocumentNo:        req.DocumentNo,
		ApprovedQty:       req.ApprovedQty,
		CustomerReturnQty: req.CustomerReturnQty,
		RejectQty:         req.RejectQty,
	}
	if req.CustomerID != nil {
		customerID, err := id.Parse(*req.CustomerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customer id"))
			return
		}
		cmd.CustomerID = &customerID
	}

	d, err := h.service.Update(c.Request.Context(), dispatchID, cmd)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDispatch(d))
}

// Delete handles DELETE /dispatches/:id.
func (h *DispatchHandler) Delete(c *gin.Context) {
	dispatchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), dispatchID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /dispatches.
func (h *DispatchHandler) List(c *gin.Context) {
	limit, ok := h.ParseIntQuery(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := h.ParseIntQuery(c, "offset", 0)
	if !ok {
		return
	}

	filter := dispatch.ListFilter{
		Limit:  limit,
		Offset: offset,
	}

	if itemID := c.Query("itemId"); itemID != "" {
		if parsed, err := id.Parse(itemID); err == nil {
			filter.ItemID = &parsed
		}
	}
	if customerID := c.Query("customerId"); customerID != "" {
		if parsed, err := id.Parse(customerID); err == nil {
			filter.CounterpartyID = &parsed
		}
	}
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.DispatchResponse, len(result.Items))
	for i, d := range result.Items {
		items[i] = dto.FromDispatch(d)
	}

	h.OK(c, dto.DispatchListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers dispatch routes.
func (h *DispatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
