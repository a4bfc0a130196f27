package inpatient

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/pacientes-internados", h.ListInpatients)
	api.GET("/indicadores", h.Indicators)
}

func (h *Handler) ListInpatients(c echo.Context) error {
	f, err := ParseFilter(c.QueryParams())
	if err != nil {
		return h.filterError(c, err)
	}
	items, err := h.svc.ListInpatients(c.Request().Context(), f)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing inpatients")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erro ao buscar pacientes internados"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Indicators(c echo.Context) error {
	f, err := ParseFilter(c.QueryParams())
	if err != nil {
		return h.filterError(c, err)
	}
	ind, err := h.svc.Indicators(c.Request().Context(), f)
	if err != nil {
		h.logger.Error().Err(err).Msg("computing indicators")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erro ao buscar indicadores"})
	}
	return c.JSON(http.StatusOK, ind)
}

func (h *Handler) filterError(c echo.Context, err error) error {
	var inv *InvalidFilterError
	if errors.As(err, &inv) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": inv.Message})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"message": "Parâmetros de filtro inválidos"})
}
