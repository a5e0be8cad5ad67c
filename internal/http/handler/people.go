package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"peopleapi/internal/service"
)

// personNameResponse is the detail response body.
type personNameResponse struct {
	Name string `json:"name"`
}

// ListPeople handles GET /people.
//
// @Summary List people
// @Description Returns at most 50 people ordered by name ascending.
// @Tags people
// @Produce json
// @Success 200 {object} service.PeopleList
// @Failure 500 {object} errorPayload
// @Router /people [get]
func ListPeople(svc service.PersonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext())
		if err != nil {
			return internalError(c, err, "list people failed")
		}
		return c.JSON(res)
	}
}

// GetPerson handles GET /people/:id.
//
// @Summary Get a person's name
// @Tags people
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} personNameResponse
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /people/{id} [get]
func GetPerson(svc service.PersonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
			}
			return internalError(c, err, "get person failed")
		}
		return c.JSON(personNameResponse{Name: p.Name})
	}
}
