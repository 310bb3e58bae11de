package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/golang-jwt/jwt/v5"

	"tiendita/internal/catalog"
	"tiendita/internal/config"
	"tiendita/internal/currency"
	"tiendita/internal/domain"
	"tiendita/internal/http/handlers"
	"tiendita/internal/media"
	"tiendita/internal/repos"
	"tiendita/internal/services"
)

// newTestApp builds the app the way main does, minus middlewares that get
// in the way of request-level tests (limiter, csrf).
func newTestApp(t *testing.T, rates *currency.Service) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := media.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if rates == nil {
		rates = currency.New("http://127.0.0.1:0/unused")
	}

	cfg := config.Config{JWTSecret: "test-secret"}
	deps, err := handlers.NewDeps(db, cfg, store, rates)
	if err != nil {
		t.Fatal(err)
	}

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	app.Get("/", deps.StoreHandler.Home)
	app.Get("/category/:category", deps.StoreHandler.Category)
	app.Get("/product/:id", deps.StoreHandler.Detail)
	app.Get("/search", deps.StoreHandler.Search)

	api := app.Group("/api/v1")
	api.Post("/login", deps.AuthHandler.Login)
	api.Get("/products", deps.ProductAPI.List)
	api.Get("/products/category/:category", deps.ProductAPI.ListByCategory)
	api.Get("/products/:id", deps.ProductAPI.Get)
	api.Get("/filters", deps.ProductAPI.Filters)
	api.Get("/exchange-rate", deps.RateHandler.Get)
	api.Get("/social-embeds", deps.EmbedHandler.List)

	admin := api.Group("", handlers.RequireAdmin(deps.Auth))
	admin.Post("/products", deps.ProductAPI.Create)
	admin.Put("/products/:id", deps.ProductAPI.Update)
	admin.Put("/products/:id/image", deps.ProductAPI.UpdateImage)
	admin.Delete("/products/:id", deps.ProductAPI.Delete)
	admin.Post("/social-embeds", deps.EmbedHandler.Create)
	admin.Delete("/social-embeds/:id", deps.EmbedHandler.Delete)

	return app
}

func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	body := strings.NewReader(`{"email":"admin@tiendita.test","password":"Admin123!"}`)
	req := httptest.NewRequest("POST", "/api/v1/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out.Token
}

func decodeProducts(t *testing.T, resp *http.Response) []domain.Product {
	t.Helper()
	var out []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestProductsListSortedByAvailability(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
	if err != nil {
		t.Fatal(err)
	}
	products := decodeProducts(t, resp)
	if len(products) == 0 {
		t.Fatal("no seeded products")
	}
	lastRank := -1
	for _, p := range products {
		r := domain.AvailabilityRank(p.Availability().Status)
		if r < lastRank {
			t.Fatalf("list not availability-sorted at %s", p.ID)
		}
		lastRank = r
	}
	// special-order import must be last
	if products[len(products)-1].ID != "jordan1-uni" {
		t.Fatalf("expected jordan1-uni last, got %s", products[len(products)-1].ID)
	}
}

func TestProductsListFilters(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := app.Test(httptest.NewRequest("GET", "/api/v1/products?brand=Nike&q=air", nil))
	products := decodeProducts(t, resp)
	if len(products) != 1 || products[0].ID != "am90-white" {
		t.Fatalf("unexpected filter result: %+v", products)
	}

	// malformed price bound is treated as absent
	resp, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products?priceMin=abc&priceMax=100", nil))
	products = decodeProducts(t, resp)
	for _, p := range products {
		if p.Price > 100 {
			t.Fatalf("priceMax ignored for %s", p.ID)
		}
	}
}

func TestProductsListPaginationEnvelope(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := app.Test(httptest.NewRequest("GET", "/api/v1/products?page=1&limit=2", nil))
	var page catalog.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("want 2 items, got %d", len(page.Items))
	}
	if page.Pagination.TotalProducts != 6 || page.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestProductDetailImagePassthrough(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := app.Test(httptest.NewRequest("GET", "/api/v1/products/am90-white?w=300&h=200", nil))
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var p domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p.Image, "?w=300&h=200") {
		t.Fatalf("image params not passed through: %s", p.Image)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products/ghost", nil))
	if resp.StatusCode != 404 {
		t.Fatalf("want 404 for unknown product, got %d", resp.StatusCode)
	}
}

func TestAdminRoutesRequireBearer(t *testing.T) {
	app := newTestApp(t, nil)

	// no token
	req := httptest.NewRequest("DELETE", "/api/v1/products/am90-white", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != 401 {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "authentication required") {
		t.Fatalf("auth failure must be distinct: %s", b)
	}

	// garbage token
	req = httptest.NewRequest("DELETE", "/api/v1/products/am90-white", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, _ = app.Test(req)
	if resp.StatusCode != 401 {
		t.Fatalf("want 401 for bad token, got %d", resp.StatusCode)
	}
}

func TestAdminRoutesRejectNonAdminRole(t *testing.T) {
	app := newTestApp(t, nil)

	// a correctly signed token whose role is not ADMIN must be told apart
	// from an authentication failure
	now := time.Now()
	claims := services.Claims{
		Role: "USER",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-customer",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("DELETE", "/api/v1/products/am90-white", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != 403 {
		t.Fatalf("want 403 for non-admin role, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "admin role required") {
		t.Fatalf("role failure must be distinct: %s", b)
	}

	// the guarded resource is untouched
	resp, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products/am90-white", nil))
	if resp.StatusCode != 200 {
		t.Fatalf("product should still exist, got %d", resp.StatusCode)
	}
}

func TestAdminUpdateFullRecord(t *testing.T) {
	app := newTestApp(t, nil)
	token := adminToken(t, app)

	body := `{
	  "name":"Box Logo Hoodie","description":"restock","brand":"Supreme",
	  "category":"clothing","price":120,
	  "sizes":[{"label":"M","price":120},{"label":"L","price":120}],
	  "colors":["red"],"onOrder":true
	}`
	req := httptest.NewRequest("PUT", "/api/v1/products/hoodie-box", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("update failed: %d %s", resp.StatusCode, b)
	}
	var p domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Price != 120 || len(p.Sizes) != 2 || len(p.Colors) != 1 {
		t.Fatalf("record not fully replaced: %+v", p)
	}
	// sizes exist + onOrder → short wait
	if got := p.Availability().Status; got != domain.AvailShortWait {
		t.Fatalf("want SHORT_WAIT, got %s", got)
	}
}

func TestAdminUpdateInvalidBodyRejectedBeforeStorage(t *testing.T) {
	app := newTestApp(t, nil)
	token := adminToken(t, app)

	req := httptest.NewRequest("PUT", "/api/v1/products/cap-nyc",
		strings.NewReader(`{"name":"","brand":"New Era","category":"accessories","price":35}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != 400 {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}

	// record unchanged
	resp, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products/cap-nyc", nil))
	var p domain.Product
	json.NewDecoder(resp.Body).Decode(&p)
	if p.Name != "NYC Cap" {
		t.Fatalf("record corrupted by rejected save: %+v", p)
	}
}

func multipartProduct(t *testing.T, fields map[string]string, sizes []string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	for _, s := range sizes {
		w.WriteField("size", s)
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "main.jpg")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(image)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestAdminCreateMultipartWithImage(t *testing.T) {
	app := newTestApp(t, nil)
	token := adminToken(t, app)

	buf, ctype := multipartProduct(t, map[string]string{
		"name": "Gazelle", "brand": "Adidas", "category": "footwear", "price": "100",
	}, []string{"41:100", "42:100"}, []byte("fake-jpeg"))

	req := httptest.NewRequest("POST", "/api/v1/products", buf)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("create failed: %d %s", resp.StatusCode, b)
	}
	var p domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if len(p.Sizes) != 2 {
		t.Fatalf("sizes not parsed: %+v", p.Sizes)
	}
	if !strings.HasPrefix(p.Image, "products/"+p.ID+"/") {
		t.Fatalf("image not stored: %q", p.Image)
	}
}

func TestAdminDeleteProduct(t *testing.T) {
	app := newTestApp(t, nil)
	token := adminToken(t, app)

	req := httptest.NewRequest("DELETE", "/api/v1/products/dunk-panda", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != 204 {
		t.Fatalf("want 204, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products/dunk-panda", nil))
	if resp.StatusCode != 404 {
		t.Fatalf("want 404 after delete, got %d", resp.StatusCode)
	}
}

func TestExchangeRateEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"venta": 1000}`))
	}))
	defer srv.Close()
	rates := currency.New(srv.URL)

	app := newTestApp(t, rates)

	// before the first fetch: unavailable, not zero
	resp, _ := app.Test(httptest.NewRequest("GET", "/api/v1/exchange-rate", nil))
	if resp.StatusCode != 503 {
		t.Fatalf("want 503 before first fetch, got %d", resp.StatusCode)
	}

	if err := rates.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	resp, _ = app.Test(httptest.NewRequest("GET", "/api/v1/exchange-rate", nil))
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var out struct {
		Rate float64 `json:"rate"`
	}
	json.NewDecoder(resp.Body).Decode(&out)
	if out.Rate != 1000 {
		t.Fatalf("want rate 1000, got %v", out.Rate)
	}
}

func TestSocialEmbedsCRUD(t *testing.T) {
	app := newTestApp(t, nil)
	token := adminToken(t, app)

	resp, _ := app.Test(httptest.NewRequest("GET", "/api/v1/social-embeds", nil))
	var embeds []domain.SocialEmbed
	json.NewDecoder(resp.Body).Decode(&embeds)
	if len(embeds) != 1 {
		t.Fatalf("want 1 seeded embed, got %d", len(embeds))
	}

	req := httptest.NewRequest("POST", "/api/v1/social-embeds",
		strings.NewReader(`{"url":"https://www.tiktok.com/@tiendita/video/7300000000000000002"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != 201 {
		t.Fatalf("create embed: %d", resp.StatusCode)
	}
	var created domain.SocialEmbed
	json.NewDecoder(resp.Body).Decode(&created)

	req = httptest.NewRequest("DELETE", "/api/v1/social-embeds/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != 204 {
		t.Fatalf("delete embed: %d", resp.StatusCode)
	}
}

func TestStorefrontPagesRender(t *testing.T) {
	app := newTestApp(t, nil)

	for _, path := range []string{"/", "/category/footwear", "/product/am90-white", "/search?q=air"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("%s: status %d", path, resp.StatusCode)
		}
	}

	resp, _ := app.Test(httptest.NewRequest("GET", "/category/gadgets", nil))
	if resp.StatusCode != 404 {
		t.Fatalf("unknown category should 404, got %d", resp.StatusCode)
	}
}
