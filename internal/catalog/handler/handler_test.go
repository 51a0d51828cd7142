package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rental_backend/internal/catalog/transport"
	"rental_backend/platform/apperr"
	"rental_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	lastProductos transport.ListProductosRequest
	lastPaquetes  transport.ListPaquetesRequest
}

func (s *stubCatalog) ListProductos(_ context.Context, req transport.ListProductosRequest) (*transport.ProductoListResponse, error) {
	s.lastProductos = req
	return &transport.ProductoListResponse{
		Items: []transport.ProductoResponse{{ID: 1, Codigo: "SIL-001", PrecioPorDia: "25.00"}},
		Total: 1,
	}, nil
}

func (s *stubCatalog) GetProducto(_ context.Context, id int64) (*transport.ProductoResponse, error) {
	if id != 1 {
		return nil, apperr.NotFound("producto not found")
	}
	return &transport.ProductoResponse{ID: 1, Codigo: "SIL-001"}, nil
}

func (s *stubCatalog) ListPaquetes(_ context.Context, req transport.ListPaquetesRequest) (*transport.PaqueteListResponse, error) {
	s.lastPaquetes = req
	return &transport.PaqueteListResponse{Items: []transport.PaqueteResponse{}}, nil
}

func (s *stubCatalog) GetPaquete(_ context.Context, id int64) (*transport.PaqueteResponse, error) {
	return nil, apperr.NotFound("paquete not found")
}

func newEngine(svc *stubCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	New(svc, validator.New()).RegisterRoutes(engine.Group("/catalogo"))
	return engine
}

func serve(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListProductosBindsEstado(t *testing.T) {
	svc := &stubCatalog{}
	rec := serve(newEngine(svc), "/catalogo/productos?estado=disponible")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "disponible", svc.lastProductos.Estado)

	var body transport.ProductoListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "25.00", body.Items[0].PrecioPorDia)
}

func TestListProductosRejectsUnknownEstado(t *testing.T) {
	rec := serve(newEngine(&stubCatalog{}), "/catalogo/productos?estado=roto")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPaquetesBindsFlag(t *testing.T) {
	svc := &stubCatalog{}
	rec := serve(newEngine(svc), "/catalogo/paquetes?incluirInactivos=true")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.lastPaquetes.IncluirInactivos)
}

func TestGetEndpoints(t *testing.T) {
	engine := newEngine(&stubCatalog{})

	assert.Equal(t, http.StatusOK, serve(engine, "/catalogo/productos/1").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, "/catalogo/productos/2").Code)
	assert.Equal(t, http.StatusBadRequest, serve(engine, "/catalogo/productos/abc").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, "/catalogo/paquetes/5").Code)
}
