// Package main hotel extranet API.
//
// @title           Hotel Extranet API
// @version         1.0
// @description     Multi-tenant hotel inventory, pricing and booking service.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer"
	availabilityctrl "github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/controller/availability"
	bookingctrl "github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/controller/booking"
	inventoryctrl "github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/controller/inventory"
	paymentctrl "github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/controller/payment"
	pricingctrl "github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/controller/pricing"
	"github.com/sarperhorata/hotel-extranet-sub001/app/echoServer/validation"
	"github.com/sarperhorata/hotel-extranet-sub001/config"
	bookingrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/booking"
	inventoryrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/inventory"
	propertyrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/property"
	rateplanrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/rateplan"
	searchrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/search"
	vccrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/vcc"
	availabilitysvc "github.com/sarperhorata/hotel-extranet-sub001/service/availability"
	bookingsvc "github.com/sarperhorata/hotel-extranet-sub001/service/booking"
	inventorysvc "github.com/sarperhorata/hotel-extranet-sub001/service/inventory"
	paymentsvc "github.com/sarperhorata/hotel-extranet-sub001/service/payment"
	"github.com/sarperhorata/hotel-extranet-sub001/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	pr := propertyrepo.New(db.Pool)
	rp := rateplanrepo.New(db.Pool)
	ir := inventoryrepo.New(db.Pool)
	sr := searchrepo.New(db.Pool)
	br := bookingrepo.New(db.Pool)
	var vr vccrepo.Repo
	if cfg.VCCAPIKey != "" {
		vr = vccrepo.NewHTTP(cfg.VCCAPIKey, cfg.VCCBaseURL)
	}

	// services
	is := inventorysvc.New(ir, pr, rp)
	as := availabilitysvc.New(sr, ir)
	bs := bookingsvc.New(br, pr, rp, ir, vr)
	ps := paymentsvc.New(vr, br)

	// controllers
	v := validator.New()
	availabilityC := &availabilityctrl.Controller{Svc: as, V: v, Log: log}
	pricingC := &pricingctrl.Controller{V: v, Log: log}
	inventoryC := &inventoryctrl.Controller{Svc: is, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Availability: availabilityC,
		Pricing:      pricingC,
		Inventory:    inventoryC,
		Booking:      bookingC,
		Payment:      paymentC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
