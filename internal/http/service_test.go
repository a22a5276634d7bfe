package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-inventory/internal/config"
	inventoryhttp "github.com/tuanvumaihuynh/product-inventory/internal/http"
	"github.com/tuanvumaihuynh/product-inventory/internal/service"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/memory"
	"github.com/tuanvumaihuynh/product-inventory/pkg/correlationid"
)

type stubHealthChecker struct {
	healthy bool
	err     error
}

func (s stubHealthChecker) IsHealthy(context.Context) (bool, error) {
	return s.healthy, s.err
}

type testServer struct {
	handler http.Handler
	store   *memory.Store
}

func newTestServer(t *testing.T, hc stubHealthChecker) testServer {
	t.Helper()

	store := memory.NewStore()
	productSvc := service.NewProductService(store, store.ProductRepository(), store.OutboxMsgRepository())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := inventoryhttp.New(config.HTTP{
		Swagger:     true,
		CorsOrigins: []string{"*"},
	}, logger, productSvc, hc)
	require.NoError(t, err)

	h, err := svc.Router(context.Background())
	require.NoError(t, err)

	return testServer{handler: h, store: store}
}

func (s testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v))
	return v
}

type errorBody struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Details  []map[string]any  `json:"details"`
	Metadata map[string]string `json:"metadata"`
}

const widget = `{"sku":"WIDGET-1","name":"Widget","description":"Blue","price":"19.99","quantity":10}`

func TestCreateProduct(t *testing.T) {
	t.Run("Should create product", func(t *testing.T) {
		s := newTestServer(t, stubHealthChecker{healthy: true})

		resp := s.do(t, http.MethodPost, "/api/products", widget)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
		assert.Contains(t, resp.Header().Get("Content-Type"), "application/json")

		body := decode[map[string]any](t, resp)
		assert.NotEmpty(t, body["id"])
		assert.Equal(t, "WIDGET-1", body["sku"])
		assert.Equal(t, "Widget", body["name"])
		assert.Equal(t, "Blue", body["description"])
		assert.Equal(t, "19.99", body["price"])
		assert.EqualValues(t, 10, body["quantity"])
		assert.NotEmpty(t, body["createdAt"])
		assert.NotEmpty(t, body["updatedAt"])

		assert.Len(t, s.store.OutboxMsgs(), 1)
	})

	t.Run("Should accept numeric price and zero quantity", func(t *testing.T) {
		s := newTestServer(t, stubHealthChecker{healthy: true})

		resp := s.do(t, http.MethodPost, "/api/products", `{"sku":"FREE-1","name":"Sample","price":0,"quantity":0}`)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

		body := decode[map[string]any](t, resp)
		assert.Equal(t, "0", body["price"])
		assert.Nil(t, body["description"])
	})

	t.Run("Should reject duplicate sku with 409", func(t *testing.T) {
		s := newTestServer(t, stubHealthChecker{healthy: true})
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/products", widget).Code)

		resp := s.do(t, http.MethodPost, "/api/products", widget)
		assert.Equal(t, http.StatusConflict, resp.Code)

		body := decode[errorBody](t, resp)
		assert.Equal(t, "PRODUCT_SKU_CONFLICT", body.Code)
		assert.Equal(t, "WIDGET-1", body.Metadata["sku"])
	})

	invalid := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing sku", body: `{"name":"W","price":"1","quantity":1}`, field: "sku"},
		{name: "invalid sku", body: `{"sku":"-bad sku","name":"W","price":"1","quantity":1}`, field: "sku"},
		{name: "blank name", body: `{"sku":"S1","name":"   ","price":"1","quantity":1}`, field: "name"},
		{name: "missing price", body: `{"sku":"S1","name":"W","quantity":1}`, field: "price"},
		{name: "negative price", body: `{"sku":"S1","name":"W","price":"-0.01","quantity":1}`, field: "price"},
		{name: "missing quantity", body: `{"sku":"S1","name":"W","price":"1"}`, field: "quantity"},
		{name: "negative quantity", body: `{"sku":"S1","name":"W","price":"1","quantity":-1}`, field: "quantity"},
		{name: "oversized quantity", body: `{"sku":"S1","name":"W","price":"1","quantity":3000000000}`, field: "quantity"},
	}
	for _, tc := range invalid {
		t.Run("Should reject "+tc.name, func(t *testing.T) {
			s := newTestServer(t, stubHealthChecker{healthy: true})

			resp := s.do(t, http.MethodPost, "/api/products", tc.body)
			require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

			body := decode[errorBody](t, resp)
			assert.Equal(t, "validationError", body.Code)
			require.NotEmpty(t, body.Details)
			assert.Equal(t, tc.field, body.Details[0]["field"])
			assert.Empty(t, s.store.OutboxMsgs())
		})
	}

	t.Run("Should reject malformed JSON", func(t *testing.T) {
		s := newTestServer(t, stubHealthChecker{healthy: true})

		resp := s.do(t, http.MethodPost, "/api/products", `{"sku":`)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "invalidRequest", decode[errorBody](t, resp).Code)
	})
}

func TestGetProductBySku(t *testing.T) {
	s := newTestServer(t, stubHealthChecker{healthy: true})
	created := decode[map[string]any](t, s.do(t, http.MethodPost, "/api/products", widget))

	t.Run("Should return product", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/products/WIDGET-1", "")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, created, decode[map[string]any](t, resp))
	})

	t.Run("Should return 404 carrying the sku", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/products/UNKNOWN", "")
		require.Equal(t, http.StatusNotFound, resp.Code)

		body := decode[errorBody](t, resp)
		assert.Equal(t, "PRODUCT_NOT_FOUND", body.Code)
		assert.Equal(t, "UNKNOWN", body.Metadata["sku"])
	})
}

func TestRestockProduct(t *testing.T) {
	t.Run("Should add quantity", func(t *testing.T) {
		s := newTestServer(t, stubHealthChecker{healthy: true})
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/products", widget).Code)

		resp := s.do(t, http.MethodPut, "/api/products/WIDGET-1/restock", `{"quantityToAdd":5}`)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		assert.EqualValues(t, 15, decode[map[string]any](t, resp)["quantity"])

		resp = s.do(t, http.MethodGet, "/api/products/WIDGET-1", "")
		assert.EqualValues(t, 15, decode[map[string]any](t, resp)["quantity"])
	})

	t.Run("Should return 404 for unknown sku", func(t *testing.T) {
		s := newTestServer(t, stubHealthChecker{healthy: true})

		resp := s.do(t, http.MethodPut, "/api/products/NOPE/restock", `{"quantityToAdd":5}`)
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Empty(t, s.store.OutboxMsgs())
	})

	for name, body := range map[string]string{
		"zero":      `{"quantityToAdd":0}`,
		"negative":  `{"quantityToAdd":-3}`,
		"missing":   `{}`,
		"oversized": `{"quantityToAdd":3000000000}`,
	} {
		t.Run("Should reject "+name+" quantity", func(t *testing.T) {
			s := newTestServer(t, stubHealthChecker{healthy: true})
			require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/products", widget).Code)

			resp := s.do(t, http.MethodPut, "/api/products/WIDGET-1/restock", body)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, "quantityToAdd", decode[errorBody](t, resp).Details[0]["field"])

			got := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/products/WIDGET-1", ""))
			assert.EqualValues(t, 10, got["quantity"])
		})
	}

	t.Run("Should apply concurrent restocks", func(t *testing.T) {
		s := newTestServer(t, stubHealthChecker{healthy: true})
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/products", widget).Code)

		const workers = 25
		var wg sync.WaitGroup
		for range workers {
			wg.Go(func() {
				resp := s.do(t, http.MethodPut, "/api/products/WIDGET-1/restock", `{"quantityToAdd":1}`)
				assert.Equal(t, http.StatusOK, resp.Code)
			})
		}
		wg.Wait()

		got := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/products/WIDGET-1", ""))
		assert.EqualValues(t, 10+workers, got["quantity"])
	})
}

func TestCorrelationID(t *testing.T) {
	s := newTestServer(t, stubHealthChecker{healthy: true})

	t.Run("Should echo caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/NOPE", nil)
		req.Header.Set(correlationid.Header, "corr-42")
		resp := httptest.NewRecorder()

		s.handler.ServeHTTP(resp, req)
		assert.Equal(t, "corr-42", resp.Header().Get(correlationid.Header))
	})

	t.Run("Should generate id and stamp outbox headers", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/products", widget)
		require.Equal(t, http.StatusCreated, resp.Code)

		id := resp.Header().Get(correlationid.Header)
		require.NotEmpty(t, id)

		msgs := s.store.OutboxMsgs()
		require.Len(t, msgs, 1)
		assert.Equal(t, id, msgs[0].Headers[correlationid.Header])
	})
}

func TestHealthz(t *testing.T) {
	t.Run("Should report ok", func(t *testing.T) {
		s := newTestServer(t, stubHealthChecker{healthy: true})

		resp := s.do(t, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
	})

	t.Run("Should report unavailable", func(t *testing.T) {
		s := newTestServer(t, stubHealthChecker{err: errors.New("connection refused")})

		resp := s.do(t, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
		assert.JSONEq(t, `{"status":"unavailable"}`, resp.Body.String())
	})
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, stubHealthChecker{healthy: true})
	s.do(t, http.MethodGet, "/api/products/NOPE", "")

	resp := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `inventory_http_requests_total{code="404",method="GET",route="/api/products/{sku}"} 1`)
}

func TestSwagger(t *testing.T) {
	s := newTestServer(t, stubHealthChecker{healthy: true})

	resp := s.do(t, http.MethodGet, "/docs/openapi.json", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}
