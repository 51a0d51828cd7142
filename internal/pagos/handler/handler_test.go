package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rental_backend/internal/pagos/transport"
	"rental_backend/platform/apperr"
	"rental_backend/platform/httpkit"
	"rental_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLedger struct {
	recorded transport.CreatePagoRequest
	listReq  transport.ListPagosRequest
}

func (s *stubLedger) RecordPayment(_ context.Context, userID uuid.UUID, req transport.CreatePagoRequest) (*transport.PagoResponse, error) {
	s.recorded = req
	return &transport.PagoResponse{ID: 1, UsuarioID: userID, NumeroTransaccion: "TRX-20260307-0000000A", Monto: req.Monto.StringFixed(2), EstadoPago: transport.EstadoCompletado}, nil
}

func (s *stubLedger) GetPayment(_ context.Context, id int64, _ uuid.UUID) (*transport.PagoResponse, error) {
	if id == 404 {
		return nil, apperr.NotFound("pago not found")
	}
	return &transport.PagoResponse{ID: id}, nil
}

func (s *stubLedger) ListPaymentsForUser(_ context.Context, _ uuid.UUID, req transport.ListPagosRequest) (*transport.PagoListResponse, error) {
	s.listReq = req
	return &transport.PagoListResponse{Items: []transport.PagoResponse{}}, nil
}

func (s *stubLedger) ListPaymentsForSolicitud(_ context.Context, solicitudID int64, _ uuid.UUID) ([]transport.PagoResponse, error) {
	return []transport.PagoResponse{{ID: 1, SolicitudID: solicitudID}}, nil
}

func newEngine(svc LedgerService, limit gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Next()
	})
	h := New(svc, validator.New())
	h.RegisterRoutes(engine.Group("/pagos"), limit)
	h.RegisterSolicitudRoutes(engine.Group("/solicitudes"))
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

func TestCreatePayment(t *testing.T) {
	svc := &stubLedger{}

	rec := do(newEngine(svc, noLimit), http.MethodPost, "/pagos",
		`{"solicitudId":3,"tipoPago":"anticipo","metodoPago":"efectivo","monto":"89.25"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body transport.PagoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "89.25", body.Monto)
	assert.Equal(t, int64(3), svc.recorded.SolicitudID)
}

func TestCreatePaymentValidation(t *testing.T) {
	cases := map[string]string{
		"malformed":        `{"solicitudId":`,
		"zero amount":      `{"solicitudId":3,"tipoPago":"anticipo","metodoPago":"efectivo","monto":"0"}`,
		"sub-cent amount":  `{"solicitudId":3,"tipoPago":"anticipo","metodoPago":"efectivo","monto":"0.004"}`,
		"amount too large": `{"solicitudId":3,"tipoPago":"anticipo","metodoPago":"efectivo","monto":"10000000000"}`,
		"bad type":         `{"solicitudId":3,"tipoPago":"propina","metodoPago":"efectivo","monto":"10"}`,
		"bad method":       `{"solicitudId":3,"tipoPago":"anticipo","metodoPago":"cheque","monto":"10"}`,
		"no request":       `{"tipoPago":"anticipo","metodoPago":"efectivo","monto":"10"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubLedger{}
			rec := do(newEngine(svc, noLimit), http.MethodPost, "/pagos", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.recorded.SolicitudID)
		})
	}
}

func TestListPaymentsBindsFilter(t *testing.T) {
	svc := &stubLedger{}

	rec := do(newEngine(svc, noLimit), http.MethodGet, "/pagos?solicitudId=9&page=2&pageSize=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, transport.ListPagosRequest{SolicitudID: 9, Page: 2, PageSize: 5}, svc.listReq)
	assert.Equal(t, http.StatusBadRequest, do(newEngine(svc, noLimit), http.MethodGet, "/pagos?pageSize=500", "").Code)
}

func TestGetPaymentAndSolicitudListing(t *testing.T) {
	engine := newEngine(&stubLedger{}, noLimit)

	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/pagos/404", "").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/pagos/2", "").Code)

	rec := do(engine, http.MethodGet, "/solicitudes/4/pagos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestRecordingIsRateLimited(t *testing.T) {
	limiter := httpkit.NewIPRateLimiter(0.0001, 1, nil)
	engine := newEngine(&stubLedger{}, limiter.RateLimit())
	body := `{"solicitudId":3,"tipoPago":"anticipo","metodoPago":"efectivo","monto":"10"}`

	assert.Equal(t, http.StatusCreated, do(engine, http.MethodPost, "/pagos", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(engine, http.MethodPost, "/pagos", body).Code)
}
