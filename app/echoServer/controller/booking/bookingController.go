package booking

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/jwtx"
	"github.com/sarperhorata/hotel-extranet-sub001/model"
	bookingsvc "github.com/sarperhorata/hotel-extranet-sub001/service/booking"
)

type Controller struct {
	Svc bookingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/bookings
func (h *Controller) Create(c echo.Context) error {
	tid, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	checkIn, err := time.Parse(model.DateLayout, req.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "check_in_date must be YYYY-MM-DD"})
	}
	checkOut, err := time.Parse(model.DateLayout, req.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "check_out_date must be YYYY-MM-DD"})
	}

	b, err := h.Svc.Create(c.Request().Context(), tid, bookingsvc.CreateInput{
		PropertyID:      req.PropertyID,
		RoomID:          req.RoomID,
		RatePlanID:      req.RatePlanID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		Adults:          req.Adults,
		Children:        req.Children,
		Rooms:           req.Rooms,
		SpecialRequests: req.SpecialRequests,
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
		DemandLevel:     req.DemandLevel,
		Season:          req.Season,
	})
	if err != nil {
		return h.fail(c, "booking create", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// POST /v1/bookings/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	tid, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Cancel(c.Request().Context(), tid, id); err != nil {
		return h.fail(c, "booking cancel", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cancelled"})
}

// GET /v1/bookings/:id
func (h *Controller) Detail(c echo.Context) error {
	tid, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	b, err := h.Svc.Get(c.Request().Context(), tid, id)
	if err != nil {
		return h.fail(c, "booking detail", err)
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/properties/:propertyId/bookings
func (h *Controller) ListByProperty(c echo.Context) error {
	tid, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	propertyID, err := strconv.ParseInt(c.Param("propertyId"), 10, 64)
	if err != nil || propertyID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	rows, err := h.Svc.ListByProperty(c.Request().Context(), tid, propertyID, limit, offset)
	if err != nil {
		return h.fail(c, "booking list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch bookingsvc.Code(err) {
	case bookingsvc.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case bookingsvc.ErrRoomNotFound, bookingsvc.ErrRatePlanNotFound, bookingsvc.ErrBookingNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case bookingsvc.ErrNoAvailability:
		return c.JSON(http.StatusConflict, echo.Map{"message": "no longer available"})
	case bookingsvc.ErrNotConfirmed:
		return c.JSON(http.StatusConflict, echo.Map{"message": "booking is not confirmed"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
