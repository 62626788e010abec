package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/collection"
	"tradedesk/internal/model"
	"tradedesk/internal/render"
	"tradedesk/internal/repository/memory"
	"tradedesk/internal/service"
	"tradedesk/internal/store"
)

type pageFixture struct {
	app  *fiber.App
	repo *memory.EntryMemory
}

func newPageFixture(t *testing.T) *pageFixture {
	t.Helper()
	ctx := context.Background()

	repo, err := memory.New()
	require.NoError(t, err)
	st := store.New(repo, nil)

	docs := collection.New[model.Document](ctx, st, service.DocumentsKey, render.Documents)
	products := collection.New[model.Product](ctx, st, service.ProductsKey, render.Products)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, Deps{
		Health:        st,
		Documents:     service.NewDocumentService(docs, clock, nil),
		Products:      service.NewProductService(products, clock, nil),
		DocumentsView: docs,
		ProductsView:  products,
		Now:           clock,
	})
	return &pageFixture{app: app, repo: repo}
}

func (f *pageFixture) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func (f *pageFixture) page(t *testing.T, target string) string {
	t.Helper()
	resp := f.do(t, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func (f *pageFixture) persisted(t *testing.T, key string) string {
	t.Helper()
	raw, err := f.repo.Get(context.Background(), key)
	require.NoError(t, err)
	return string(raw)
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func redirectQuery(t *testing.T, resp *http.Response) url.Values {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return loc.Query()
}

func TestShowPage_Tabs(t *testing.T) {
	f := newPageFixture(t)

	body := f.page(t, "/")
	assert.Contains(t, body, `id="homeTab" class="tab active"`)
	assert.Contains(t, body, "No documents uploaded yet.")
	assert.Contains(t, body, "No products added yet.")

	body = f.page(t, "/?tab=store")
	assert.Contains(t, body, `id="storeTab" class="tab active"`)
	assert.Contains(t, body, `id="storePage" class="page active"`)
	assert.NotContains(t, body, `id="homeTab" class="tab active"`)

	body = f.page(t, "/?tab=settings")
	assert.Contains(t, body, `id="homeTab" class="tab active"`)
}

func TestShowPage_Notice(t *testing.T) {
	f := newPageFixture(t)

	body := f.page(t, "/?notice=Saved&level=success")
	assert.Contains(t, body, `class="notice success"`)
	assert.Contains(t, body, "Saved")

	body = f.page(t, "/?notice=Hi&level=bogus")
	assert.Contains(t, body, `class="notice info"`)
}

func TestProductFlow(t *testing.T) {
	f := newPageFixture(t)
	id := "1720085400000"

	q := redirectQuery(t, f.do(t, postForm("/products", url.Values{
		"name": {"Widget"}, "sku": {"W-1"}, "qty": {"5"}, "price": {"9.99"},
	})))
	assert.Equal(t, "store", q.Get("tab"))
	assert.Equal(t, "success", q.Get("level"))

	body := f.page(t, "/?tab=store")
	assert.Contains(t, body, "Widget")
	assert.Contains(t, body, "$9.99")
	assert.Contains(t, body, `action="/products/`+id+`/delete"`)
	assert.Contains(t, body, `href="/products/`+id+`/edit"`)
	assert.Contains(t, f.persisted(t, service.ProductsKey), `"sku":"W-1"`)

	q = redirectQuery(t, f.do(t, httptest.NewRequest(http.MethodGet, "/products/"+id+"/edit", nil)))
	assert.Equal(t, "Edit feature coming soon!", q.Get("notice"))

	q = redirectQuery(t, f.do(t, postForm("/products/"+id+"/delete", nil)))
	assert.Equal(t, "success", q.Get("level"))

	assert.Contains(t, f.page(t, "/?tab=store"), "No products added yet.")
	assert.JSONEq(t, `[]`, f.persisted(t, service.ProductsKey))
}

func TestProductFlow_Invalid(t *testing.T) {
	f := newPageFixture(t)

	q := redirectQuery(t, f.do(t, postForm("/products", url.Values{
		"name": {""}, "sku": {"W-1"}, "qty": {"5"}, "price": {"9.99"},
	})))
	assert.Equal(t, "error", q.Get("level"))
	assert.Equal(t, "Please fill all fields correctly.", q.Get("notice"))
	assert.Contains(t, f.page(t, "/?tab=store"), "No products added yet.")
}

func TestDocumentFlow(t *testing.T) {
	f := newPageFixture(t)

	body, ct := multipartBody(t, "invoice.txt", "hello world", map[string]string{"type": "commercial_invoice"})
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", ct)

	q := redirectQuery(t, f.do(t, req))
	assert.Equal(t, "docs", q.Get("tab"))
	assert.Equal(t, "success", q.Get("level"))

	page := f.page(t, "/?tab=docs")
	assert.Contains(t, page, "invoice.txt")
	assert.Contains(t, page, "Commercial Invoice")
	assert.Contains(t, page, `href="/documents/0/download"`)

	resp := f.do(t, httptest.NewRequest(http.MethodGet, "/documents/0/download", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "hello world", string(raw))
}

func TestDocumentFlow_MissingType(t *testing.T) {
	f := newPageFixture(t)

	body, ct := multipartBody(t, "invoice.txt", "hello", nil)
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", ct)

	q := redirectQuery(t, f.do(t, req))
	assert.Equal(t, "error", q.Get("level"))
	assert.Equal(t, "Please select a file and document type.", q.Get("notice"))
	assert.Contains(t, f.page(t, "/?tab=docs"), "No documents uploaded yet.")
}

func TestProductFlow_NonFinitePrice(t *testing.T) {
	f := newPageFixture(t)

	for _, price := range []string{"Inf", "-Inf", "NaN"} {
		q := redirectQuery(t, f.do(t, postForm("/products", url.Values{
			"name": {"Widget"}, "sku": {"W-1"}, "qty": {"5"}, "price": {price},
		})))
		assert.Equal(t, "error", q.Get("level"), "price %s", price)
	}

	q := redirectQuery(t, f.do(t, postForm("/products", url.Values{
		"name": {"Widget"}, "sku": {"W-1"}, "qty": {"5"}, "price": {"9.99"},
	})))
	assert.Equal(t, "success", q.Get("level"))
	assert.Contains(t, f.persisted(t, service.ProductsKey), `"price":9.99`)

	resp := f.do(t, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, f.persisted(t, service.ProductsKey), string(raw))
}
