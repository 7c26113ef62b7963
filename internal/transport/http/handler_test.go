package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"invoiceguard/internal/domain"
)

// stubValidator returns a canned verdict or error; handler tests validate
// HTTP concerns only.
type stubValidator struct {
	verdict *domain.Verdict
	err     error
}

func (s *stubValidator) Validate(_ context.Context, _ domain.RawInvoice) (*domain.Verdict, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.verdict, nil
}

type HandlerSuite struct {
	suite.Suite
	stub   *stubValidator
	router http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.stub = &stubValidator{
		verdict: domain.NewVerdict("27AABCT1234F1ZP/INV-1", nil, time.Now()),
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.router = NewRouter(New(s.stub, logger))
}

func (s *HandlerSuite) post(body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestValidate_InvalidJSON() {
	rec := s.post([]byte("not valid json"))
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestValidate_ReturnsVerdict() {
	inv := domain.RawInvoice{
		SellerGSTIN:   "27AABCT1234F1ZP",
		InvoiceNumber: "INV-1",
		InvoiceDate:   time.Now(),
	}
	body, err := json.Marshal(inv)
	require.NoError(s.T(), err)

	rec := s.post(body)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var verdict domain.Verdict
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&verdict))
	assert.Equal(s.T(), domain.StatusPass, verdict.Status)
	assert.Equal(s.T(), "27AABCT1234F1ZP/INV-1", verdict.InvoiceRef)
}

func (s *HandlerSuite) TestValidate_RunLevelFault() {
	s.stub.err = errors.New("invoice has no seller GSTIN")
	rec := s.post([]byte("{}"))
	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
}

func (s *HandlerSuite) TestValidate_MethodNotAllowed() {
	req := httptest.NewRequest(http.MethodGet, "/v1/invoices/validate", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(s.T(), http.StatusMethodNotAllowed, rec.Code)
}

func (s *HandlerSuite) TestHealthz() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
}
