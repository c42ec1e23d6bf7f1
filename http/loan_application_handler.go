package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sanasa-loans/domain"
	"sanasa-loans/service"
)

var nextSteps = []string{
	"Check your email for application confirmation",
	"We will contact you within 24 hours",
	"Prepare required documents for verification",
}

type LoanApplicationHandler struct {
	service *service.LoanApplicationService
}

func NewLoanApplicationHandler(service *service.LoanApplicationService) *LoanApplicationHandler {
	return &LoanApplicationHandler{service: service}
}

type (
	applyResponse struct {
		Success           bool     `json:"success"`
		Message           string   `json:"message"`
		ApplicationNumber string   `json:"applicationNumber"`
		NextSteps         []string `json:"nextSteps"`
	}

	pagination struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
	}

	listResponse struct {
		Success      bool                     `json:"success"`
		Applications []domain.LoanApplication `json:"applications"`
		Pagination   pagination               `json:"pagination"`
	}

	applicationResponse struct {
		Success     bool                   `json:"success"`
		Message     string                 `json:"message,omitempty"`
		Application domain.LoanApplication `json:"application"`
	}
)

func (h *LoanApplicationHandler) Apply(c echo.Context) error {
	var in domain.NewLoanApplication
	if err := c.Bind(&in); err != nil {
		return err
	}

	app, err := h.service.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, applyResponse{
		Success:           true,
		Message:           "Loan application submitted successfully",
		ApplicationNumber: app.ApplicationNumber,
		NextSteps:         nextSteps,
	})
}

func (h *LoanApplicationHandler) List(c echo.Context) error {
	var filter domain.ApplicationFilter
	err := echo.QueryParamsBinder(c).
		String("status", &filter.Status).
		Int("page", &filter.Page).
		Int("limit", &filter.Limit).
		BindError()
	if err != nil {
		return err
	}

	apps, filter, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listResponse{
		Success:      true,
		Applications: apps,
		Pagination:   pagination{Page: filter.Page, Limit: filter.Limit, Total: total},
	})
}

func (h *LoanApplicationHandler) Get(c echo.Context) error {
	app, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationResponse{Success: true, Application: app})
}

func (h *LoanApplicationHandler) Update(c echo.Context) error {
	var upd domain.ApplicationUpdate
	if err := c.Bind(&upd); err != nil {
		return err
	}

	app, err := h.service.Update(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, applicationResponse{
		Success:     true,
		Message:     "Application updated successfully",
		Application: app,
	})
}
