package controller

import (
	"strconv"

	"storefront-be/internal/dto"
	"storefront-be/internal/pkg/serverutils"
	"storefront-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const totalCountHeader = "X-Total-Count"

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	ListProducts(ctx *fiber.Ctx) error
	GetProduct(ctx *fiber.Ctx) error
	ListCategories(ctx *fiber.Ctx) error
	ListBrands(ctx *fiber.Ctx) error
}

type catalogController struct {
	service service.ICatalogService
}

func NewCatalogController(service service.ICatalogService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	r.Get("/products", c.ListProducts)
	r.Get("/products/:id", c.GetProduct)
	r.Get("/categories", c.ListCategories)
	r.Get("/brands", c.ListBrands)
}

func (c *catalogController) ListProducts(ctx *fiber.Ctx) error {
	var req dto.ListProductsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ListProducts(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	ctx.Set(totalCountHeader, strconv.FormatInt(res.Total, 10))
	return ctx.JSON(serverutils.SuccessResponse("Success list products", res))
}

func (c *catalogController) GetProduct(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
	}

	res, err := c.service.GetProduct(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get product", res))
}

func (c *catalogController) ListCategories(ctx *fiber.Ctx) error {
	res, err := c.service.ListCategories(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list categories", res))
}

func (c *catalogController) ListBrands(ctx *fiber.Ctx) error {
	res, err := c.service.ListBrands(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list brands", res))
}
