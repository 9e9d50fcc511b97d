package router

import (
	"time"

	"events-webapp/config"
	"events-webapp/handlers"
	"events-webapp/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const (
	loginAttempts = 10
	loginWindow   = time.Minute
)

func SetupRoutes(app *fiber.App, h *handlers.Handler, cfg *config.Config) {
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	api := app.Group("/", logger.New())
	api.Get("/ping", handlers.GetPing)

	//Login
	login := api.Group("/api/auth")
	login.Post("/login", limiter.New(limiter.Config{
		Max:          loginAttempts,
		Expiration:   loginWindow,
		LimitReached: h.LoginThrottled,
	}), h.Login)

	//Public events
	events := api.Group("/api/events")
	events.Get("/", h.ListPublicEvents)
	events.Get("/:id", h.GetPublicEvent)
	events.Post("/:id/bookings", h.CreateBooking)
	events.Get("/:id/booths", h.GetBoothOptions)
	events.Post("/:id/booths/:optionId/bookings", h.CreateBoothBooking)

	//Contact and partner forms
	api.Post("/api/contacts", h.CreateContact)
	partners := api.Group("/api/partners")
	partners.Get("/events", h.ListPartnerEvents)
	partners.Post("/:type", h.CreatePartnerApplication)

	//Admin
	admin := api.Group("/api/admin", middleware.Authorize(cfg.SigningKey), middleware.RequireAdmin)
	admin.Get("/me", h.Me)
	admin.Post("/logout", h.Logout)
	admin.Get("/dashboard", h.Dashboard)

	adminEvents := admin.Group("/events")
	adminEvents.Get("/", h.ListEvents)
	adminEvents.Get("/new", h.NewEventForm)
	adminEvents.Get("/:id/form", h.EditEventForm)
	adminEvents.Post("/", h.CreateEvent)
	adminEvents.Put("/:id", h.UpdateEvent)
	adminEvents.Delete("/:id", h.DeleteEvent)

	admin.Get("/bookings", h.ListBookings)
	admin.Get("/booth-bookings", h.ListBoothBookings)
	admin.Patch("/booth-bookings/:id/status", h.SetBoothBookingStatus)

	contacts := admin.Group("/contacts")
	contacts.Get("/", h.ListContacts)
	contacts.Get("/:id", h.OpenContact)
	contacts.Patch("/:id/replied", h.MarkContactReplied)
	contacts.Delete("/:id", h.DeleteContact)

	adminPartners := admin.Group("/partners/:type")
	adminPartners.Get("/", h.ListPartners)
	adminPartners.Get("/:id", h.GetPartner)
	adminPartners.Patch("/:id/status", h.SetPartnerStatus)
	adminPartners.Delete("/:id", h.DeletePartner)

	//Pages
	api.Use("/admin", middleware.SessionGuard(middleware.AdminPaths, h.Auth.Verify))
	if cfg.StorageDriver == config.StorageLocal {
		api.Static("/uploads", cfg.UploadDir)
	}
	api.Static("/", cfg.PublicDir)
}
