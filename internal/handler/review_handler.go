package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type ReviewResponse struct {
	ID            uint64 `json:"id"`
	AppointmentID uint64 `json:"appointmentId"`
	AuthorID      string `json:"authorId"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	CreatedAt     string `json:"createdAt"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func toReviewResponse(r *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:            r.ID,
		AppointmentID: r.AppointmentID,
		AuthorID:      r.AuthorID,
		Rating:        r.Rating,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ReviewHandler) Create(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	rv, err := h.svc.Create(c.Request().Context(), id, uid, req.Rating, req.Comment)
	if err != nil {
		return serviceError(c, err, "appointment")
	}
	return c.JSON(http.StatusCreated, toReviewResponse(rv))
}

func (h *ReviewHandler) List(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	list, err := h.svc.ListByAppointment(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err, "reviews")
	}
	resp := make([]ReviewResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toReviewResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reviews": resp})
}
