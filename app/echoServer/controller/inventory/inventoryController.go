package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/jwtx"
	"github.com/sarperhorata/hotel-extranet-sub001/model"
	invsvc "github.com/sarperhorata/hotel-extranet-sub001/service/inventory"
)

type Controller struct {
	Svc invsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/properties/:propertyId/inventory?date=YYYY-MM-DD&room_id=&rate_plan_id=
func (h *Controller) GetByDate(c echo.Context) error {
	tid, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	propertyID, err := strconv.ParseInt(c.Param("propertyId"), 10, 64)
	if err != nil || propertyID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	date, err := time.Parse(model.DateLayout, c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "date must be YYYY-MM-DD"})
	}
	roomID, err := optionalID(c.QueryParam("room_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid room_id"})
	}
	ratePlanID, err := optionalID(c.QueryParam("rate_plan_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid rate_plan_id"})
	}

	recs, err := h.Svc.GetByDate(c.Request().Context(), tid, propertyID, date, roomID, ratePlanID)
	if err != nil {
		return h.fail(c, "inventory get", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": recs})
}

// PATCH /v1/inventory/:id
func (h *Controller) Update(c echo.Context) error {
	tid, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateRecordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	rec, err := h.Svc.Update(c.Request().Context(), tid, id, invsvc.UpdateFields{
		AvailableRooms:    req.AvailableRooms,
		Price:             req.Price,
		MinStay:           req.MinStay,
		ClosedToArrival:   req.ClosedToArrival,
		ClosedToDeparture: req.ClosedToDeparture,
		StopSell:          req.StopSell,
	})
	if err != nil {
		return h.fail(c, "inventory update", err)
	}
	return c.JSON(http.StatusOK, rec)
}

// POST /v1/properties/:propertyId/inventory/bulk
func (h *Controller) BulkUpdate(c echo.Context) error {
	tid, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	propertyID, err := strconv.ParseInt(c.Param("propertyId"), 10, 64)
	if err != nil || propertyID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	var req BulkUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	items := make([]invsvc.BulkItem, 0, len(req.Updates))
	for _, u := range req.Updates {
		d, err := time.Parse(model.DateLayout, u.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "dates must be YYYY-MM-DD"})
		}
		items = append(items, invsvc.BulkItem{
			RoomID:         u.RoomID,
			RatePlanID:     u.RatePlanID,
			Date:           d,
			AvailableRooms: u.AvailableRooms,
			Price:          u.Price,
		})
	}

	results, err := h.Svc.BulkUpdate(c.Request().Context(), tid, propertyID, items)
	if err != nil {
		return h.fail(c, "inventory bulk update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"results": results})
}

// POST /v1/properties/:propertyId/inventory/provision
func (h *Controller) Provision(c echo.Context) error {
	tid, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	propertyID, err := strconv.ParseInt(c.Param("propertyId"), 10, 64)
	if err != nil || propertyID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	var req ProvisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	start, err := time.Parse(model.DateLayout, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "start_date must be YYYY-MM-DD"})
	}

	created, err := h.Svc.ProvisionRange(c.Request().Context(), tid, propertyID, req.RoomID, req.RatePlanIDs, start, req.Days)
	if err != nil {
		return h.fail(c, "inventory provision", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": created})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch invsvc.Code(err) {
	case invsvc.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case invsvc.ErrPropertyNotFound, invsvc.ErrRoomNotFound, invsvc.ErrRatePlanNotFound, invsvc.ErrRecordNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

func optionalID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, echo.ErrBadRequest
	}
	return &id, nil
}
