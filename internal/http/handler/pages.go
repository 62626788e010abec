package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tradedesk/internal/logging"
	"tradedesk/internal/model"
	"tradedesk/internal/render"
	"tradedesk/internal/service"
	"tradedesk/internal/tabs"
	"tradedesk/internal/templates"
)

// PageTitle is the heading of the home panel.
const PageTitle = "Trade Desk"

// Viewer exposes the last rendered fragment of a collection.
type Viewer interface {
	View() template.HTML
}

// Notice levels.
const (
	levelSuccess = "success"
	levelError   = "error"
	levelInfo    = "info"
)

// Notice texts shown after form submissions.
const (
	msgUploadMissing   = "Please select a file and document type."
	msgUploadFailed    = "Upload failed. Please try again."
	msgProductInvalid  = "Please fill all fields correctly."
	msgProductNotFound = "No product with that id."
	msgEditComingSoon  = "Edit feature coming soon!"
)

// redirectWithNotice sends the browser back to tab with a one-shot notice.
func redirectWithNotice(c *fiber.Ctx, tab, level, msg string) error {
	q := url.Values{}
	q.Set("tab", tab)
	if msg != "" {
		q.Set("notice", msg)
		q.Set("level", level)
	}
	return c.Redirect("/?"+q.Encode(), fiber.StatusSeeOther)
}

func noticeFromQuery(c *fiber.Ctx) *render.Notice {
	msg := c.Query("notice")
	if msg == "" {
		return nil
	}
	level := c.Query("level")
	switch level {
	case levelSuccess, levelError, levelInfo:
	default:
		level = levelInfo
	}
	return &render.Notice{Level: level, Message: msg}
}

// ShowPage renders the tabbed page. Unknown tab names keep the home panel.
func ShowPage(docs, products Viewer, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		ctl := tabs.New()
		if name := c.Query("tab"); name != "" {
			if err := ctl.SwitchTo(name); err != nil {
				logging.From(c.UserContext(), log).Debug("tab_ignored", zap.String("tab", name))
			}
		}

		var buf bytes.Buffer
		err := render.Page(&buf, render.PageData{
			Title:         PageTitle,
			Active:        ctl.Active(),
			Panels:        ctl.Panels(),
			Notice:        noticeFromQuery(c),
			DocTypes:      model.DocTypes,
			TemplateKinds: templates.Kinds,
			Documents:     docs.View(),
			Products:      products.View(),
		})
		if err != nil {
			logging.From(c.UserContext(), log).Error("page_render_failed", zap.Error(err))
			return fiber.ErrInternalServerError
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	}
}

// SubmitDocument handles the upload form.
func SubmitDocument(svc service.DocumentService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		docType := model.DocType(c.FormValue("type"))
		fh, err := c.FormFile("file")
		if err != nil || docType == "" {
			return redirectWithNotice(c, tabs.Docs, levelError, msgUploadMissing)
		}

		f, err := fh.Open()
		if err != nil {
			logging.From(c.UserContext(), log).Warn("upload_open_failed", zap.Error(err))
			return redirectWithNotice(c, tabs.Docs, levelError, msgUploadFailed)
		}
		defer f.Close()

		doc, err := svc.Upload(c.UserContext(), service.UploadInput{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
			Type:        docType,
		})
		switch {
		case errors.Is(err, service.ErrFileRequired), errors.Is(err, service.ErrTypeRequired):
			return redirectWithNotice(c, tabs.Docs, levelError, msgUploadMissing)
		case err != nil:
			logging.From(c.UserContext(), log).Error("upload_failed", zap.Error(err))
			return redirectWithNotice(c, tabs.Docs, levelError, msgUploadFailed)
		}
		return redirectWithNotice(c, tabs.Docs, levelSuccess, "Uploaded "+doc.Name+".")
	}
}

// DownloadDocument streams the original bytes of the document at :index.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idx, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INDEX", "invalid document index")
		}
		dl, err := svc.Download(c.UserContext(), idx)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		c.Attachment(dl.Filename)
		c.Set(fiber.HeaderContentType, dl.ContentType)
		return c.Send(dl.Data)
	}
}

// SubmitProduct handles the add-product form.
func SubmitProduct(svc service.ProductService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		var in service.ProductInput
		if err := c.BodyParser(&in); err != nil {
			logging.From(c.UserContext(), log).Debug("product_form_invalid", zap.Error(err))
			return redirectWithNotice(c, tabs.Store, levelError, msgProductInvalid)
		}

		p, err := svc.Add(c.UserContext(), in)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidProduct) {
				logging.From(c.UserContext(), log).Error("product_add_failed", zap.Error(err))
			}
			return redirectWithNotice(c, tabs.Store, levelError, msgProductInvalid)
		}
		return redirectWithNotice(c, tabs.Store, levelSuccess, "Added "+p.Name+".")
	}
}

// RemoveProduct handles the per-row delete form.
func RemoveProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return redirectWithNotice(c, tabs.Store, levelError, msgProductNotFound)
		}
		if svc.Remove(c.UserContext(), id) == 0 {
			return redirectWithNotice(c, tabs.Store, levelInfo, msgProductNotFound)
		}
		return redirectWithNotice(c, tabs.Store, levelSuccess, "Product deleted.")
	}
}

// EditProduct answers the per-row edit link.
func EditProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return redirectWithNotice(c, tabs.Store, levelError, msgProductNotFound)
		}
		err = svc.Edit(c.UserContext(), id)
		switch {
		case errors.Is(err, service.ErrEditUnsupported):
			return redirectWithNotice(c, tabs.Store, levelInfo, msgEditComingSoon)
		case err != nil:
			return redirectWithNotice(c, tabs.Store, levelError, err.Error())
		}
		return redirectWithNotice(c, tabs.Store, "", "")
	}
}

// DownloadTemplate serves the generated text for :type as a file. Tags without a
// layout get the placeholder text.
func DownloadTemplate(now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tag := c.Params("type")
		t := now()
		c.Attachment(templates.FileName(tag, t))
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(templates.Generate(tag, t))
	}
}
