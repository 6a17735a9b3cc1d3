package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ecofinds/marketplace/internal/service"
)

func TestProductHandlerCreate(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	seller := createUser(t, db, "seller", "user")
	h := &ProductHandler{Catalog: &service.CatalogService{DB: db}}

	c, rec := request(e, http.MethodPost, "/api/products",
		`{"title":"Camera","description":"Film camera","price":80,"category":"Electronics"}`,
		seller.ID, "user")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "success", decode(t, rec).Status)

	c, rec = request(e, http.MethodPost, "/api/products",
		`{"title":"","description":"no title","price":10,"category":"Electronics"}`,
		seller.ID, "user")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = request(e, http.MethodPost, "/api/products",
		`{"title":"X","description":"bad category","price":10,"category":"Spaceships"}`,
		seller.ID, "user")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandlerListExcludesOwnListings(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	alice := createUser(t, db, "alice", "user")
	bob := createUser(t, db, "bob", "user")
	createProduct(t, db, alice.ID, "Alice lamp", 10, 1)
	createProduct(t, db, bob.ID, "Bob chair", 20, 1)
	h := &ProductHandler{Catalog: &service.CatalogService{DB: db}}

	// Anonymous callers see everything.
	c, rec := request(e, http.MethodGet, "/api/products", "", 0, "")
	require.NoError(t, h.List(c))
	resp := decode(t, rec)
	require.Equal(t, int64(2), resp.Pagination.TotalItems)

	// An authenticated caller never sees their own listings in the feed.
	c, rec = request(e, http.MethodGet, "/api/products", "", alice.ID, "user")
	require.NoError(t, h.List(c))
	resp = decode(t, rec)
	require.Equal(t, int64(1), resp.Pagination.TotalItems)

	// Admins see the full feed.
	c, rec = request(e, http.MethodGet, "/api/products", "", alice.ID, "admin")
	require.NoError(t, h.List(c))
	resp = decode(t, rec)
	require.Equal(t, int64(2), resp.Pagination.TotalItems)
}

func TestProductHandlerListFilterParams(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	seller := createUser(t, db, "seller", "user")
	createProduct(t, db, seller.ID, "Cheap lamp", 5, 1)
	createProduct(t, db, seller.ID, "Dear lamp", 50, 1)
	h := &ProductHandler{Catalog: &service.CatalogService{DB: db}}

	c, rec := request(e, http.MethodGet, "/api/products?minPrice=10&maxPrice=100", "", 0, "")
	require.NoError(t, h.List(c))
	resp := decode(t, rec)
	require.Equal(t, int64(1), resp.Pagination.TotalItems)

	// Unparseable price bounds are ignored rather than rejected.
	c, rec = request(e, http.MethodGet, "/api/products?minPrice=abc", "", 0, "")
	require.NoError(t, h.List(c))
	resp = decode(t, rec)
	require.Equal(t, int64(2), resp.Pagination.TotalItems)
}

func TestProductHandlerGetUpdateDelete(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	seller := createUser(t, db, "seller", "user")
	stranger := createUser(t, db, "stranger", "user")
	product := createProduct(t, db, seller.ID, "Chair", 40, 1)
	h := &ProductHandler{Catalog: &service.CatalogService{DB: db}}
	id := itoa(product.ID)

	c, rec := request(e, http.MethodGet, "/api/products/"+id, "", 0, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = request(e, http.MethodGet, "/api/products/abc", "", 0, "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = request(e, http.MethodPut, "/api/products/"+id, `{"title":"Hijacked"}`, stranger.ID, "user")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = request(e, http.MethodPut, "/api/products/"+id, `{"title":"Office chair"}`, seller.ID, "user")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = request(e, http.MethodDelete, "/api/products/"+id, "", seller.ID, "user")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = request(e, http.MethodGet, "/api/products/"+id, "", 0, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
