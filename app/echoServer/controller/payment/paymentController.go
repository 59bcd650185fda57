package payment

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	paymentsvc "github.com/sarperhorata/hotel-extranet-sub001/service/payment"
)

type Controller struct {
	Svc paymentsvc.Service
	Log *slog.Logger
}

// POST /v1/payments/vcc — card issuer webhook, authenticated by signature.
func (h *Controller) HandleVCC(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot read body"})
	}
	sig := c.Request().Header.Get("X-Callback-Signature")

	if err := h.Svc.HandleIssuerEvent(c.Request().Context(), sig, raw); err != nil {
		h.Log.Error("vcc webhook", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "rejected"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
