package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rental_backend/internal/tarjetas/transport"
	"rental_backend/platform/apperr"
	"rental_backend/platform/httpkit"
	"rental_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVault struct {
	added   transport.CreateTarjetaRequest
	removed int64
	owner   uuid.UUID
}

func (s *stubVault) AddCard(_ context.Context, userID uuid.UUID, req transport.CreateTarjetaRequest) (*transport.TarjetaResponse, error) {
	s.added = req
	s.owner = userID
	return &transport.TarjetaResponse{ID: 1, UsuarioID: userID, UltimosDigitos: "4242", Activa: true}, nil
}

func (s *stubVault) ListCards(context.Context, uuid.UUID) (*transport.TarjetaListResponse, error) {
	return &transport.TarjetaListResponse{Items: []transport.TarjetaResponse{}}, nil
}

func (s *stubVault) GetCard(_ context.Context, id int64, _ uuid.UUID) (*transport.TarjetaResponse, error) {
	if id == 404 {
		return nil, apperr.NotFound("tarjeta not found")
	}
	return &transport.TarjetaResponse{ID: id}, nil
}

func (s *stubVault) UpdateCard(_ context.Context, id int64, _ uuid.UUID, _ transport.UpdateTarjetaRequest) (*transport.TarjetaResponse, error) {
	return &transport.TarjetaResponse{ID: id}, nil
}

func (s *stubVault) RemoveCard(_ context.Context, id int64, _ uuid.UUID) error {
	s.removed = id
	return nil
}

func (s *stubVault) SetDefaultCard(_ context.Context, id int64, _ uuid.UUID) (*transport.TarjetaResponse, error) {
	return &transport.TarjetaResponse{ID: id, EsPredeterminada: true}, nil
}

func newEngine(svc VaultService, userID uuid.UUID, limit gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, userID)
		c.Next()
	})
	New(svc, validator.New()).RegisterRoutes(engine.Group("/tarjetas"), limit)
	return engine
}

func noLimit(c *gin.Context) { c.Next() }

func do(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

const addBody = `{
	"tipoTarjeta": "credito",
	"marca": "visa",
	"numeroTarjeta": "4242 4242 4242 4242",
	"cvv": "123",
	"nombreTitular": "Ana Gomez",
	"mesExpiracion": 12,
	"anioExpiracion": 2030,
	"esPredeterminada": true
}`

func TestCreateReturns201WithoutToken(t *testing.T) {
	svc := &stubVault{}
	owner := uuid.New()

	rec := do(newEngine(svc, owner, noLimit), http.MethodPost, "/tarjetas", addBody)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, owner, svc.owner)
	assert.True(t, svc.added.EsPredeterminada)
	assert.NotContains(t, rec.Body.String(), "token")
	assert.NotContains(t, rec.Body.String(), "4242424242424242")
}

func TestCreateValidation(t *testing.T) {
	cases := map[string]string{
		"short number": strings.Replace(addBody, "4242 4242 4242 4242", "4242 4242", 1),
		"letters":      strings.Replace(addBody, "4242 4242 4242 4242", "4242 abcd 4242 4242", 1),
		"cvv":          strings.Replace(addBody, `"123"`, `"12"`, 1),
		"month":        strings.Replace(addBody, `"mesExpiracion": 12`, `"mesExpiracion": 13`, 1),
		"brand":        strings.Replace(addBody, `"visa"`, `"diners"`, 1),
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubVault{}
			rec := do(newEngine(svc, uuid.New(), noLimit), http.MethodPost, "/tarjetas", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, svc.added.NumeroTarjeta)
		})
	}
}

func TestDeleteReturns204(t *testing.T) {
	svc := &stubVault{}

	rec := do(newEngine(svc, uuid.New(), noLimit), http.MethodDelete, "/tarjetas/7", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(7), svc.removed)
}

func TestGetMapsErrors(t *testing.T) {
	engine := newEngine(&stubVault{}, uuid.New(), noLimit)

	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/tarjetas/404", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(engine, http.MethodGet, "/tarjetas/abc", "").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/tarjetas/3", "").Code)
}

func TestWritesAreRateLimited(t *testing.T) {
	limiter := httpkit.NewIPRateLimiter(0.0001, 1, nil)
	engine := newEngine(&stubVault{}, uuid.New(), limiter.RateLimit())

	assert.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/tarjetas/3/predeterminada", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(engine, http.MethodPost, "/tarjetas/3/predeterminada", "").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/tarjetas", "").Code)
}
