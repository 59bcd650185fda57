package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/controller/availability"
	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/controller/booking"
	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/controller/inventory"
	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/controller/payment"
	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/controller/pricing"
)

type C struct {
	Availability *availability.Controller
	Pricing      *pricing.Controller
	Inventory    *inventory.Controller
	Booking      *booking.Controller
	Payment      *payment.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/payments/vcc", c.Payment.HandleVCC)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// tenant_id extraction; every core call takes it explicitly
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenObj := ctx.Get("user")
			claims, ok := tokenObj.(jwt.MapClaims)
			if !ok {
				if tok, isTok := tokenObj.(*jwt.Token); isTok && tok != nil {
					claims, ok = tok.Claims.(jwt.MapClaims)
				}
			}
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			tid, ok := claims["tid"].(float64)
			if !ok || tid <= 0 {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("tenant_id", int64(tid))
			return next(ctx)
		}
	})

	// Availability & pricing
	auth.POST("/search", c.Availability.Search)
	auth.POST("/pricing/quote", c.Pricing.Quote)

	// Inventory
	auth.GET("/properties/:propertyId/inventory", c.Inventory.GetByDate)
	auth.PATCH("/inventory/:id", c.Inventory.Update)
	auth.POST("/properties/:propertyId/inventory/bulk", c.Inventory.BulkUpdate)
	auth.POST("/properties/:propertyId/inventory/provision", c.Inventory.Provision)

	// Bookings
	auth.POST("/bookings", c.Booking.Create)
	auth.GET("/bookings/:id", c.Booking.Detail)
	auth.POST("/bookings/:id/cancel", c.Booking.Cancel)
	auth.GET("/properties/:propertyId/bookings", c.Booking.ListByProperty)
}
