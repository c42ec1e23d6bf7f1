package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sanasa-loans/domain"
	"sanasa-loans/service"
)

type TermRecommendationHandler struct {
	service *service.TenureAdvisorService
}

func NewTermRecommendationHandler(service *service.TenureAdvisorService) *TermRecommendationHandler {
	return &TermRecommendationHandler{service: service}
}

func (h *TermRecommendationHandler) RecommendTenure(c echo.Context) error {
	var input domain.TenureRecommendationInput
	if err := c.Bind(&input); err != nil {
		return err
	}

	result, err := h.service.Recommend(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, struct {
		Success bool `json:"success"`
		domain.TenureRecommendationResult
	}{true, result})
}
