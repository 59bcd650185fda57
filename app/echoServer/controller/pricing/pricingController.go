package pricing

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/jwtx"
	pricingsvc "github.com/sarperhorata/hotel-extranet-sub001/service/pricing"
)

type Controller struct {
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/pricing/quote
func (h *Controller) Quote(c echo.Context) error {
	if _, err := jwtx.TenantIDFromContext(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req QuoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	sig := pricingsvc.DefaultSignals()
	if req.DemandLevel != "" {
		sig.DemandLevel = req.DemandLevel
	}
	if req.Season != "" {
		sig.Season = req.Season
	}
	if req.OccupancyRate != nil {
		sig.OccupancyRate = *req.OccupancyRate
	}

	quote := pricingsvc.Calculate(req.BasePrice, req.DynamicRules, sig)
	return c.JSON(http.StatusOK, quote)
}
