package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"todoapi/docs"
	"todoapi/internal/model"
	"todoapi/internal/service"
)

const healthTimeout = 2 * time.Second

// HealthChecker reports whether the to-do store can be read.
type HealthChecker interface {
	List(ctx context.Context) ([]model.ToDoItem, error)
}

// CreateTodoRequest is the body of POST /todos.
type CreateTodoRequest struct {
	Title     string `json:"title" example:"Buy milk"`
	Completed bool   `json:"completed" example:"false"`
}

// UpdateTodoRequest is the body of PATCH /todos/{id}.
type UpdateTodoRequest struct {
	Completed *bool `json:"completed" example:"true"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, health HealthChecker, todoSvc service.TodoService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(health))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", Metrics(gatherer))
	app.Get("/swagger/*", Swagger())

	app.Get("/todos", ListTodos(todoSvc))
	app.Post("/todos", CreateTodo(todoSvc))
	app.Patch("/todos/:id", UpdateTodo(todoSvc))
	app.Delete("/todos/:id", DeleteTodo(todoSvc))
}

// HealthCheck reads the to-do collection with a short timeout.
//
//	@Summary	Store health
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	errorPayload
//	@Router		/health [get]
func HealthCheck(health HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if _, err := health.List(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics exposes the registry in the Prometheus text format.
func Metrics(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// ConfigureSwagger sets the public host and schemes of the API document.
// Call it once before the server starts; Swagger only reads the document.
func ConfigureSwagger(host string, schemes ...string) {
	docs.SwaggerInfo.Host = host
	docs.SwaggerInfo.Schemes = schemes
}

// Swagger serves the UI and the API document.
func Swagger() fiber.Handler {
	return swagger.HandlerDefault
}

// ListTodos returns every to-do item.
//
//	@Summary	List to-do items
//	@Tags		todos
//	@Produce	json
//	@Success	200	{object}	service.TodoListResult
//	@Failure	500	{object}	errorPayload
//	@Router		/todos [get]
func ListTodos(todoSvc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := todoSvc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// CreateTodo adds a to-do item.
//
//	@Summary	Create a to-do item
//	@Tags		todos
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateTodoRequest	true	"New item"
//	@Success	201		{object}	model.ToDoItem
//	@Failure	400		{object}	errorPayload
//	@Failure	500		{object}	errorPayload
//	@Router		/todos [post]
func CreateTodo(todoSvc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateTodoRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		item, err := todoSvc.Create(c.UserContext(), req.Title, req.Completed)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// UpdateTodo sets the completed flag of a to-do item.
//
//	@Summary	Mark a to-do item completed or not
//	@Tags		todos
//	@Accept		json
//	@Param		id		path	string				true	"Item ID"
//	@Param		body	body	UpdateTodoRequest	true	"Completed flag"
//	@Success	204
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Failure	500	{object}	errorPayload
//	@Router		/todos/{id} [patch]
func UpdateTodo(todoSvc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req UpdateTodoRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Completed == nil {
			return writeError(c, fiber.StatusBadRequest, "COMPLETED_REQUIRED", "completed is required")
		}

		// Params share the request buffer; the id outlives the request on spans.
		id := utils.CopyString(c.Params("id"))
		if err := todoSvc.SetCompleted(c.UserContext(), id, *req.Completed); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteTodo removes a to-do item.
//
//	@Summary	Delete a to-do item
//	@Tags		todos
//	@Param		id	path	string	true	"Item ID"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Failure	500	{object}	errorPayload
//	@Router		/todos/{id} [delete]
func DeleteTodo(todoSvc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := utils.CopyString(c.Params("id"))
		if err := todoSvc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "ID_REQUIRED", "id is required")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "to-do item not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
