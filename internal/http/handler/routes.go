package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	"tradedesk/docs"
	"tradedesk/internal/service"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Health        Pinger
	Documents     service.DocumentService
	Products      service.ProductService
	DocumentsView Viewer
	ProductsView  Viewer
	Now           func() time.Time
	Log           *zap.Logger
}

// RegisterRoutes attaches the page, API and ops routes to app.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	d.Log = orNop(d.Log)

	app.Get("/health", HealthCheck(d.Health))
	app.Get("/healthz", LivenessProbe())
	app.Get("/swagger/*", Swagger())

	// HTML pages; form posts redirect back to the page.
	app.Get("/", ShowPage(d.DocumentsView, d.ProductsView, d.Log))
	app.Post("/documents", SubmitDocument(d.Documents, d.Log))
	app.Get("/documents/:index/download", DownloadDocument(d.Documents))
	app.Post("/products", SubmitProduct(d.Products, d.Log))
	app.Post("/products/:id/delete", RemoveProduct(d.Products))
	app.Get("/products/:id/edit", EditProduct(d.Products))
	app.Get("/templates/:type", DownloadTemplate(d.Now))

	api := app.Group("/api")
	api.Get("/documents", ListDocuments(d.Documents))
	api.Post("/documents", UploadDocument(d.Documents, d.Log))
	api.Get("/products", ListProducts(d.Products))
	api.Post("/products", CreateProduct(d.Products, d.Log))
	api.Delete("/products/:id", DeleteProduct(d.Products))
	api.Put("/products/:id", UpdateProduct(d.Products))
	api.Get("/templates/:type", GetTemplate(d.Now))
}

// Swagger serves the UI with host and scheme taken from the request.
func Swagger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
