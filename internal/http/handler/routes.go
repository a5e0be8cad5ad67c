package handler

import (
	"github.com/gofiber/fiber/v2"

	"peopleapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db Pinger, svc service.PersonService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// URL shape of the original service; registered before /people/:id.
	app.Get("/people.json", ListPeople(svc))
	app.Get("/people/:id.json", GetPerson(svc))

	app.Get("/people", ListPeople(svc))
	app.Get("/people/:id", GetPerson(svc))
}
