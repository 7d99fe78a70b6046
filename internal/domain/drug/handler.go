package drug

import (
	"errors"
	"net/http"
	"strconv"

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
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "pharmacist"))
	readGroup.GET("/drugs", h.ListDrugs)
	readGroup.GET("/drugs/resolve", h.ResolveDrug)
	readGroup.GET("/drugs/risk-path", h.RiskPath)
	readGroup.GET("/drugs/:id", h.GetDrug)
	readGroup.GET("/drugs/:id/interactions", h.GetInteractions)

	writeGroup := api.Group("", auth.RequireRole("admin", "pharmacist"))
	writeGroup.POST("/drugs", h.CreateDrug)
	writeGroup.POST("/drugs/:id/aliases", h.AddAlias)
	writeGroup.POST("/interactions", h.CreateInteraction)
}

func (h *Handler) CreateDrug(c echo.Context) error {
	var d Drug
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDrug(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDrug(c echo.Context) error {
	d, err := h.svc.GetDrug(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "drug not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDrugs(c echo.Context) error {
	pg := pagination.FromContext(c)
	drugs, total, err := h.svc.ListDrugs(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(drugs, total, pg.Limit, pg.Offset))
}

type aliasRequest struct {
	Name string `json:"name"`
}

func (h *Handler) AddAlias(c echo.Context) error {
	var req aliasRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.AddAlias(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		if errors.Is(err, ErrDrugNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "drug not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type interactionRequest struct {
	DrugA           string   `json:"drug_a"`
	DrugB           string   `json:"drug_b"`
	Severity        int      `json:"severity"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
}

func (h *Handler) CreateInteraction(c echo.Context) error {
	var req interactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	edge := &Interaction{
		Severity:        req.Severity,
		Description:     req.Description,
		Recommendations: req.Recommendations,
	}
	if err := h.svc.AddInteraction(c.Request().Context(), req.DrugA, req.DrugB, edge); err != nil {
		if errors.Is(err, ErrDrugNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, edge)
}

func (h *Handler) GetInteractions(c echo.Context) error {
	interactions, err := h.svc.InteractionsOf(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, interactions)
}

func (h *Handler) ResolveDrug(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name query parameter is required")
	}
	maxDistance, _ := strconv.Atoi(c.QueryParam("max_distance"))

	candidates, err := h.svc.Candidates(c.Request().Context(), name, maxDistance)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	best, ok, err := h.svc.Resolve(c.Request().Context(), name, maxDistance)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := map[string]interface{}{
		"query":      name,
		"candidates": candidates,
	}
	if ok {
		resp["best"] = best
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) RiskPath(c echo.Context) error {
	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if from == "" || to == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "from and to query parameters are required")
	}

	path, err := h.svc.LeastRiskPath(c.Request().Context(), from, to)
	if err != nil {
		switch {
		case errors.Is(err, ErrDrugNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNoPath):
			return echo.NewHTTPError(http.StatusNotFound, "no interaction path between drugs")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, path)
}
