package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/service"
)

type AppointmentHandler struct {
	svc service.AppointmentService
}

func NewAppointmentHandler(svc service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

type AppointmentResponse struct {
	ID          uint64  `json:"id"`
	OfferingID  uint64  `json:"offeringId"`
	ClientID    string  `json:"clientId"`
	ProviderID  string  `json:"providerId"`
	Status      string  `json:"status"`
	ScheduledAt string  `json:"scheduledAt"`
	CompletedAt *string `json:"completedAt,omitempty"`
	CanceledAt  *string `json:"canceledAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

type BookAppointmentRequest struct {
	OfferingID  uint64    `json:"offeringId"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

func toAppointmentResponse(a *model.Appointment) AppointmentResponse {
	var completedAt, canceledAt *string
	if a.CompletedAt != nil {
		val := a.CompletedAt.Format(time.RFC3339)
		completedAt = &val
	}
	if a.CanceledAt != nil {
		val := a.CanceledAt.Format(time.RFC3339)
		canceledAt = &val
	}
	return AppointmentResponse{
		ID:          a.ID,
		OfferingID:  a.OfferingID,
		ClientID:    a.ClientID,
		ProviderID:  a.ProviderID,
		Status:      string(a.Status),
		ScheduledAt: a.ScheduledAt.Format(time.RFC3339),
		CompletedAt: completedAt,
		CanceledAt:  canceledAt,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}

func (h *AppointmentHandler) Book(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return unauthorized(c)
	}
	var req BookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	a, err := h.svc.Book(c.Request().Context(), uid, req.OfferingID, req.ScheduledAt)
	if err != nil {
		return serviceError(c, err, "offering")
	}
	return c.JSON(http.StatusCreated, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Get(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	a, err := h.svc.Get(c.Request().Context(), id, uid)
	if err != nil {
		return serviceError(c, err, "appointment")
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(a))
}

func (h *AppointmentHandler) ListMine(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return unauthorized(c)
	}
	list, err := h.svc.ListByClient(c.Request().Context(), uid)
	if err != nil {
		return serviceError(c, err, "appointments")
	}
	resp := make([]AppointmentResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toAppointmentResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointments": resp})
}

func (h *AppointmentHandler) Complete(c echo.Context) error {
	return h.transition(c, h.svc.Complete)
}

func (h *AppointmentHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.svc.Cancel)
}

func (h *AppointmentHandler) transition(c echo.Context, fn func(ctx context.Context, id uint64, uid string) (*model.Appointment, error)) error {
	uid := currentUID(c)
	if uid == "" {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	a, err := fn(c.Request().Context(), id, uid)
	if err != nil {
		return serviceError(c, err, "appointment")
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(a))
}
