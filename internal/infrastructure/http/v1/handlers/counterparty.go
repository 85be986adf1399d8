package handlers

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/catalogs/counterparty"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// CounterpartyHandler handles HTTP requests for the counterparty catalog.
type CounterpartyHandler struct {
	*BaseHandler
	service *counterparty.Service
}

// NewCounterpartyHandler creates a new counterparty handler.
func NewCounterpartyHandler(base *BaseHandler, service *counterparty.Service) *CounterpartyHandler {
	return &CounterpartyHandler{BaseHandler: base, service: service}
}

// Create handles POST /counterparties.
func (h *CounterpartyHandler) Create(c *gin.Context) {
	var req dto.CreateCounterpartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cp, err := h.service.Create(c.Request.Context(), counterparty.CreateCommand{
		Code:    req.Code,
		Name:    req.Name,
		Type:    counterparty.Type(req.Type),
		Contact: req.Contact,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromCounterparty(cp))
}

// Get handles GET /counterparties/:id.
func (h *CounterpartyHandler) Get(c *gin.Context) {
	cpID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	cp, err := h.service.GetByID(c.Request.Context(), cpID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCounterparty(cp))
}

// Update handles PUT /counterparties/:id.
func (h *CounterpartyHandler) Update(c *gin.Context) {
	cpID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateCounterpartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd := counterparty.UpdateCommand{
		Code:    req.Code,
		Name:    req.Name,
		Contact: req.Contact,
		Active:  req.Active,
	}
	if req.Type != nil {
		t := counterparty.Type(*req.Type)
		cmd.Type = &t
	}

	cp, err := h.service.Update(c.Request.Context(), cpID, cmd)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCounterparty(cp))
}

// Delete handles DELETE /counterparties/:id.
func (h *CounterpartyHandler) Delete(c *gin.Context) {
	cpID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), cpID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /counterparties.
func (h *CounterpartyHandler) List(c *gin.Context) {
	limit, ok := h.ParseIntQuery(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := h.ParseIntQuery(c, "offset", 0)
	if !ok {
		return
	}

	filter := counterparty.ListFilter{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("activeOnly") == "true",
		Limit:      limit,
		Offset:     offset,
	}
	if t := c.Query("type"); t != "" {
		cpType := counterparty.Type(t)
		filter.Type = &cpType
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.CounterpartyResponse, len(result.Items))
	for i, cp := range result.Items {
		items[i] = dto.FromCounterparty(cp)
	}

	h.OK(c, dto.CounterpartyListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers counterparty routes.
func (h *CounterpartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
