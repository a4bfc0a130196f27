package reference

import (
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
	api.GET("/medicos", h.Clinicians)
	api.GET("/pacientes", h.Patients)
	api.GET("/unidades", h.Facilities)
	api.GET("/postos", h.Posts)
	api.GET("/especialidades", h.Specialties)
	api.GET("/procedimentos", h.Procedures)
}

func (h *Handler) Clinicians(c echo.Context) error {
	items, err := h.svc.Clinicians(c.Request().Context())
	if err != nil {
		return h.queryError(c, err, "médicos")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Patients(c echo.Context) error {
	items, err := h.svc.Patients(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return h.queryError(c, err, "pacientes")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Facilities(c echo.Context) error {
	items, err := h.svc.Facilities(c.Request().Context())
	if err != nil {
		return h.queryError(c, err, "unidades")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Posts(c echo.Context) error {
	items, err := h.svc.Posts(c.Request().Context())
	if err != nil {
		return h.queryError(c, err, "postos")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Specialties(c echo.Context) error {
	items, err := h.svc.Specialties(c.Request().Context())
	if err != nil {
		return h.queryError(c, err, "especialidades")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Procedures(c echo.Context) error {
	items, err := h.svc.Procedures(c.Request().Context())
	if err != nil {
		return h.queryError(c, err, "procedimentos")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) queryError(c echo.Context, err error, what string) error {
	h.logger.Error().Err(err).Str("list", what).Msg("listing reference data")
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Erro ao buscar " + what})
}
