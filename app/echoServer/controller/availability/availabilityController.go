package availability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/jwtx"
	"github.com/sarperhorata/hotel-extranet-sub001/model"
	searchrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/search"
	avsvc "github.com/sarperhorata/hotel-extranet-sub001/service/availability"
)

type Controller struct {
	Svc avsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/search
func (h *Controller) Search(c echo.Context) error {
	tid, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req SearchReq
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

	results, err := h.Svc.Search(c.Request().Context(), tid, avsvc.Request{
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Adults:       req.Adults,
		Children:     req.Children,
		Rooms:        req.Rooms,
		Filters: searchrepo.Filters{
			PropertyID: req.PropertyID,
			City:       req.City,
			Country:    req.Country,
			RoomType:   req.RoomType,
			Amenities:  req.Amenities,
		},
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		DemandLevel: req.DemandLevel,
		Season:      req.Season,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		if avsvc.Code(err) == avsvc.ErrBadInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		h.Log.Error("availability search", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": results, "count": len(results)})
}
