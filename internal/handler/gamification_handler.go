package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/service"
)

type GamificationHandler struct {
	svc service.GamificationService
}

func NewGamificationHandler(svc service.GamificationService) *GamificationHandler {
	return &GamificationHandler{svc: svc}
}

type BadgeResponse struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	IconURL         *string `json:"iconUrl,omitempty"`
	RuleKind        string  `json:"ruleKind"`
	PointsThreshold *int64  `json:"pointsThreshold,omitempty"`
	EventTrigger    *string `json:"eventTrigger,omitempty"`
	RequiredCount   *int64  `json:"requiredCount,omitempty"`
}

type GamificationSummaryResponse struct {
	UserID string          `json:"userId"`
	Points int64           `json:"points"`
	Badges []BadgeResponse `json:"badges"`
}

func toBadgeResponse(b *model.Badge) BadgeResponse {
	resp := BadgeResponse{
		ID:              b.ID,
		Name:            b.Name,
		Description:     b.Description,
		IconURL:         b.IconURL,
		RuleKind:        string(b.RuleKind),
		PointsThreshold: b.PointsThreshold,
		RequiredCount:   b.RequiredCount,
	}
	if b.EventTrigger != nil {
		ev := string(*b.EventTrigger)
		resp.EventTrigger = &ev
	}
	return resp
}

func toBadgeResponses(badges []model.Badge) []BadgeResponse {
	out := make([]BadgeResponse, 0, len(badges))
	for i := range badges {
		out = append(out, toBadgeResponse(&badges[i]))
	}
	return out
}

func (h *GamificationHandler) ListBadges(c echo.Context) error {
	badges, err := h.svc.ListBadges(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "badges")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"badges": toBadgeResponses(badges),
	})
}

func (h *GamificationHandler) UserSummary(c echo.Context) error {
	sum, err := h.svc.UserSummary(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err, "user")
	}
	return c.JSON(http.StatusOK, GamificationSummaryResponse{
		UserID: sum.UserID,
		Points: sum.Points,
		Badges: toBadgeResponses(sum.Badges),
	})
}
