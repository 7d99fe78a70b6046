package analysis

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rxguard/rxguard/internal/platform/auth"
	"github.com/rxguard/rxguard/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	group := api.Group("", auth.RequireRole("admin", "physician", "nurse", "pharmacist"))
	group.POST("/analyze", h.Analyze)
	group.GET("/analyses", h.ListReports)
}

type analyzeRequest struct {
	PatientID        string `json:"patient_id"`
	PrescriptionText string `json:"prescription_text"`
}

// Analyze always answers 200 with an assessment once the request body
// parses; pipeline failures surface as zero-confidence results, not HTTP
// errors.
func (h *Handler) Analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result := h.svc.Analyze(c.Request().Context(), req.PatientID, req.PrescriptionText)
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ListReports(c echo.Context) error {
	pg := pagination.FromContext(c)
	patientID := c.QueryParam("patient_id")

	reports, total, err := h.svc.ListReports(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(reports, total, pg.Limit, pg.Offset))
}
