package handlers

import (
	"errors"
	"log/slog"

	"github.com/futurelab/intuto-connect/model"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductsHandler struct {
	productLinks ProductLinkRepo
}

func NewProductsHandler(productLinks ProductLinkRepo) *ProductsHandler {
	return &ProductsHandler{
		productLinks: productLinks,
	}
}

type productLinkForm struct {
	CollectionID int64  `json:"collectionID"`
	ProductName  string `json:"productName"`
}

func (h *ProductsHandler) GetProductLinks(ctx *fiber.Ctx) error {
	links, err := h.productLinks.List(ctx.Context())
	if err != nil {
		slog.Error("failed to list product links", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse(fiber.StatusInternalServerError, "could not list product links"))
	}
	return ctx.JSON(dataResponse(fiber.Map{"links": links}))
}

func (h *ProductsHandler) GetProductLink(ctx *fiber.Ctx) error {
	productID, err := ctx.ParamsInt("id")
	if err != nil || productID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse(fiber.StatusBadRequest, "invalid product id"))
	}

	link, err := h.productLinks.Get(ctx.Context(), uint(productID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(errorResponse(fiber.StatusNotFound, "product is not linked"))
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse(fiber.StatusInternalServerError, "could not read product link"))
	}
	return ctx.JSON(dataResponse(link))
}

// PutProductLink creates or updates the collection link for a product. A
// collection id of 0 marks the product as not an Intuto product.
func (h *ProductsHandler) PutProductLink(ctx *fiber.Ctx) error {
	productID, err := ctx.ParamsInt("id")
	if err != nil || productID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse(fiber.StatusBadRequest, "invalid product id"))
	}

	var form productLinkForm
	if err := ctx.BodyParser(&form); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse(fiber.StatusBadRequest, "invalid request body"))
	}
	if form.CollectionID < 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse(fiber.StatusBadRequest, "invalid collection id"))
	}

	link := &model.ProductLink{
		ProductID:    uint(productID),
		CollectionID: form.CollectionID,
		ProductName:  form.ProductName,
	}
	if err := h.productLinks.Set(ctx.Context(), link); err != nil {
		slog.Error("failed to save product link", "productID", productID, "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse(fiber.StatusInternalServerError, "could not save product link"))
	}
	return ctx.JSON(dataResponse(link))
}

func (h *ProductsHandler) DeleteProductLink(ctx *fiber.Ctx) error {
	productID, err := ctx.ParamsInt("id")
	if err != nil || productID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse(fiber.StatusBadRequest, "invalid product id"))
	}

	if err := h.productLinks.Delete(ctx.Context(), uint(productID)); err != nil {
		slog.Error("failed to delete product link", "productID", productID, "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse(fiber.StatusInternalServerError, "could not delete product link"))
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
