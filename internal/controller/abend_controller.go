package controller

import (
	"errors"

	"abend-assist-be/internal/pkg/serverutils"
	"abend-assist-be/internal/service"
	"abend-assist-be/pkg/abend"

	"github.com/gofiber/fiber/v2"
)

type IAbendController interface {
	RegisterRoutes(r fiber.Router)
	GetCommon(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
}

type abendController struct {
	service   service.IAbendService
	jwtSecret string
}

func NewAbendController(service service.IAbendService, jwtSecret string) IAbendController {
	return &abendController{service: service, jwtSecret: jwtSecret}
}

func (c *abendController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/abends")
	h.Get("/common", c.GetCommon)
	h.Get("/search", c.Search)
	h.Post("/refresh", serverutils.JwtMiddleware(c.jwtSecret), c.Refresh)
}

func (c *abendController) GetCommon(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Common abend codes", c.service.Common(ctx.UserContext())))
}

func (c *abendController) Search(ctx *fiber.Ctx) error {
	res := c.service.Search(ctx.UserContext(), ctx.Query("q"), ctx.QueryInt("limit", 10))
	return ctx.JSON(serverutils.SuccessResponse("Matching abend codes", res))
}

// Refresh reloads the lookup data from the database.
func (c *abendController) Refresh(ctx *fiber.Ctx) error {
	res, err := c.service.Refresh(ctx.UserContext())
	if err != nil {
		if errors.Is(err, abend.ErrInvalidRecords) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(fiber.StatusUnprocessableEntity, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, "Failed to reload abend data"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Abend data reloaded", res))
}
