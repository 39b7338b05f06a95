package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/city-explorer/internal/explorer"
)

var validate = validator.New()

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *explorer.Service) {
	app.Get("/location", func(c *fiber.Ctx) error {
		loc, err := service.Location(c.UserContext(), c.Query("data"))
		if err != nil {
			return err
		}
		return c.JSON(loc)
	})

	app.Get("/weather", categoryHandler(needCoordinates, service.Weather))
	app.Get("/yelp", categoryHandler(needSearchQuery, service.Businesses))
	app.Get("/movies", categoryHandler(needSearchQuery, service.Movies))
	app.Get("/meetups", categoryHandler(needEither, service.Meetups))
	app.Get("/trails", categoryHandler(needCoordinates, service.Trails))
}

// RegisterOps adds the health and metrics endpoints. db may be nil.
func RegisterOps(app *fiber.App, name string, db Pinger) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if db != nil {
			if err := db.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status":  "unavailable",
					"service": name,
				})
			}
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": name,
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func categoryHandler[T any](n need, resolve func(context.Context, explorer.Location) ([]T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := bindCategoryRequest(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := req.check(n); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := resolve(c.UserContext(), req.toLocation())
		if err != nil {
			return err
		}
		if records == nil {
			records = []T{}
		}
		return c.JSON(records)
	}
}

// ErrorHandler is the centralized error response of the app.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Sorry, something went wrong"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code, message = fe.Code, fe.Message
	case errors.Is(err, explorer.ErrInvalidQuery):
		code, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, explorer.ErrProviderEmpty):
		code, message = fiber.StatusNotFound, "no results for this location"
	case errors.Is(err, explorer.ErrProviderUnavailable):
		code, message = fiber.StatusBadGateway, "upstream service unavailable"
	}

	if code >= fiber.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"component":  "http",
			"path":       c.Path(),
			"request_id": c.Locals("requestid"),
		}).Error("[HTTP] Request failed")
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
