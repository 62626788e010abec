package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tradedesk/internal/logging"
	"tradedesk/internal/model"
	"tradedesk/internal/service"
	"tradedesk/internal/templates"
)

// ListDocuments godoc
// @Summary List documents
// @Tags documents
// @Produce json
// @Success 200 {array} model.Document
// @Router /api/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs := svc.List(c.UserContext())
		if docs == nil {
			docs = []model.Document{}
		}
		return c.JSON(docs)
	}
}

// UploadDocument godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Param type formData string true "Document type"
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Router /api/documents [post]
func UploadDocument(svc service.DocumentService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := svc.Upload(c.UserContext(), service.UploadInput{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
			Type:        model.DocType(c.FormValue("type")),
		})
		switch {
		case errors.Is(err, service.ErrFileRequired):
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		case errors.Is(err, service.ErrTypeRequired):
			return writeError(c, fiber.StatusBadRequest, "TYPE_REQUIRED", "a valid document type is required")
		case err != nil:
			logging.From(c.UserContext(), log).Error("upload_failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} model.Product
// @Router /api/products [get]
func ListProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products := svc.List(c.UserContext())
		if products == nil {
			products = []model.Product{}
		}
		return c.JSON(products)
	}
}

// CreateProduct godoc
// @Summary Add a product
// @Tags products
// @Accept json
// @Produce json
// @Param product body service.ProductInput true "Product"
// @Success 201 {object} model.Product
// @Failure 400 {object} errorPayload
// @Router /api/products [post]
func CreateProduct(svc service.ProductService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		var in service.ProductInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PRODUCT", "malformed product")
		}

		p, err := svc.Add(c.UserContext(), in)
		if err != nil {
			if errors.Is(err, service.ErrInvalidProduct) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PRODUCT", "name and sku are required, qty must be >= 0 and price > 0")
			}
			logging.From(c.UserContext(), log).Error("product_add_failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Param id path int true "Product id"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/products/{id} [delete]
func DeleteProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if svc.Remove(c.UserContext(), id) == 0 {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "product not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UpdateProduct godoc
// @Summary Edit a product (not implemented)
// @Tags products
// @Param id path int true "Product id"
// @Failure 501 {object} errorPayload
// @Router /api/products/{id} [put]
func UpdateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		err = svc.Edit(c.UserContext(), id)
		switch {
		case errors.Is(err, service.ErrEditUnsupported):
			return writeError(c, fiber.StatusNotImplemented, "NOT_IMPLEMENTED", msgEditComingSoon)
		case err != nil:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetTemplate godoc
// @Summary Generate a document template
// @Tags templates
// @Produce plain
// @Param type path string true "Template kind"
// @Success 200 {string} string
// @Failure 404 {object} errorPayload
// @Router /api/templates/{type} [get]
func GetTemplate(now func() time.Time) fiber.Handler {
	download := DownloadTemplate(now)
	return func(c *fiber.Ctx) error {
		if !templates.Defined(c.Params("type")) {
			return writeError(c, fiber.StatusNotFound, "UNKNOWN_TEMPLATE", "template not defined")
		}
		return download(c)
	}
}
