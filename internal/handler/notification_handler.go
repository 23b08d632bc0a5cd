package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/repository"
	"github.com/serviconnect/backend/internal/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type NotificationResponse struct {
	ID        uint64  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	BadgeID   *uint64 `json:"badgeId,omitempty"`
	Read      bool    `json:"read"`
	CreatedAt string  `json:"createdAt"`
}

func toNotificationResponse(n model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		BadgeID:   n.BadgeID,
		Read:      n.ReadAt != nil,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

type BadgeAwardResponse struct {
	NotificationResponse
	BadgeName string  `json:"badgeName"`
	IconURL   *string `json:"iconUrl,omitempty"`
}

func queryLimit(c echo.Context) int {
	limit := 20
	if lStr := c.QueryParam("limit"); lStr != "" {
		if lParsed, err := strconv.Atoi(lStr); err == nil && lParsed > 0 {
			limit = lParsed
		}
	}
	return limit
}

// List accepts unread_only (default true), type and limit.
func (h *NotificationHandler) List(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return unauthorized(c)
	}
	f := repository.NotificationFilter{
		UnreadOnly: c.QueryParam("unread_only") != "false",
		Type:       c.QueryParam("type"),
		Limit:      queryLimit(c),
	}
	list, unreadCount, err := h.svc.List(c.Request().Context(), uid, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch notifications"))
	}
	resp := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, toNotificationResponse(n))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": resp,
		"unreadCount":   unreadCount,
	})
}

func (h *NotificationHandler) ListBadgeAwards(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return unauthorized(c)
	}
	rows, err := h.svc.BadgeAwards(c.Request().Context(), uid, queryLimit(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch badge awards"))
	}
	resp := make([]BadgeAwardResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, BadgeAwardResponse{
			NotificationResponse: toNotificationResponse(r.Notification),
			BadgeName:            r.BadgeName,
			IconURL:              r.BadgeIconURL,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"badgeAwards": resp})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return unauthorized(c)
	}
	if err := h.svc.MarkAllRead(c.Request().Context(), uid); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark read"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
