package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/service"
)

type OfferingHandler struct {
	svc service.OfferingService
}

func NewOfferingHandler(svc service.OfferingService) *OfferingHandler {
	return &OfferingHandler{svc: svc}
}

type OfferingResponse struct {
	ID          uint64 `json:"id"`
	ProviderID  string `json:"providerId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type OfferingListResponse struct {
	Offerings []OfferingResponse `json:"offerings"`
	Total     int64              `json:"total"`
}

type CreateOfferingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
}

func (h *OfferingHandler) Create(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return unauthorized(c)
	}
	var req CreateOfferingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	o, err := h.svc.Create(c.Request().Context(), uid, req.Title, req.Description, req.PriceCents)
	if err != nil {
		return serviceError(c, err, "offering")
	}
	return c.JSON(http.StatusCreated, toOfferingResponse(o))
}

func (h *OfferingHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	o, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err, "offering")
	}
	return c.JSON(http.StatusOK, toOfferingResponse(o))
}

func (h *OfferingHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, total, err := h.svc.List(c.Request().Context(), c.QueryParam("provider_id"), limit, offset)
	if err != nil {
		return serviceError(c, err, "offerings")
	}
	resp := OfferingListResponse{
		Offerings: make([]OfferingResponse, 0, len(list)),
		Total:     total,
	}
	for i := range list {
		resp.Offerings = append(resp.Offerings, toOfferingResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func toOfferingResponse(o *model.Offering) OfferingResponse {
	return OfferingResponse{
		ID:          o.ID,
		ProviderID:  o.ProviderID,
		Title:       o.Title,
		Description: o.Description,
		PriceCents:  o.PriceCents,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
}
