package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/domain"
	"github.com/malyszg/lms-sub001/internal/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockLeadService is a mock implementation of service.LeadServicer
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) CreateLead(ctx context.Context, req *dto.CreateLeadRequest) (*domain.Lead, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadService) GetLead(ctx context.Context, uuid string) (*domain.Lead, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadService) UpdateLeadStatus(ctx context.Context, uuid, status string) (*domain.Lead, error) {
	args := m.Called(ctx, uuid, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadService) DeleteLead(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

// MockAuditLogger is a mock implementation of audit.Logger
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) LogAPIRequest(ctx context.Context, endpoint, method string, statusCode int, details map[string]any, ipAddress, userAgent, errorMessage string) {
	m.Called(ctx, endpoint, method, statusCode, details, ipAddress, userAgent, errorMessage)
}

func (m *MockAuditLogger) LogLoginAttempt(ctx context.Context, username string, success bool, ipAddress, userAgent string) {
	m.Called(ctx, username, success, ipAddress, userAgent)
}

func (m *MockAuditLogger) LogLogout(ctx context.Context, userID int64, username, ipAddress, userAgent string) {
	m.Called(ctx, userID, username, ipAddress, userAgent)
}

func (m *MockAuditLogger) LogLeadDeleted(ctx context.Context, leadUUID string, details map[string]any) {
	m.Called(ctx, leadUUID, details)
}

func (m *MockAuditLogger) LogCDPDeliverySuccess(ctx context.Context, system, leadUUID string, statusCode int) {
	m.Called(ctx, system, leadUUID, statusCode)
}

func (m *MockAuditLogger) LogCDPDeliveryFailure(ctx context.Context, system, leadUUID string, statusCode int, errorDetail string, terminal bool) {
	m.Called(ctx, system, leadUUID, statusCode, errorDetail, terminal)
}

func (m *MockAuditLogger) LogCDPDispatchError(ctx context.Context, leadUUID, errorDetail string) {
	m.Called(ctx, leadUUID, errorDetail)
}

func newTestHandler(svc *MockLeadService) (*Handler, *MockAuditLogger) {
	auditLog := new(MockAuditLogger)
	auditLog.On("LogAPIRequest",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	return NewHandler(svc, auditLog, zap.NewNop(), false), auditLog
}

func storedLead(uuid string) *domain.Lead {
	return &domain.Lead{
		ID:          1,
		UUID:        uuid,
		Application: "morizon",
		Status:      domain.LeadStatusNew,
		Customer: domain.Customer{
			Email: "jan@example.com",
			Phone: "+48123456789",
		},
	}
}

func TestHandler_CreateLead(t *testing.T) {
	svc := new(MockLeadService)
	handler, _ := newTestHandler(svc)

	svc.On("CreateLead", mock.Anything, mock.MatchedBy(func(req *dto.CreateLeadRequest) bool {
		return req.Application == "morizon" && req.Customer.Email == "jan@example.com"
	})).Return(storedLead("uuid-1"), nil)

	body := `{
		"application": "morizon",
		"customer": {"email": "jan@example.com", "phone": "+48123456789"}
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.LeadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "uuid-1", resp.UUID)
	assert.Equal(t, "new", resp.Status)

	svc.AssertExpectations(t)
}

func TestHandler_CreateLead_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing application", `{"customer": {"email": "a@b.com", "phone": "123"}}`},
		{"missing email", `{"application": "morizon", "customer": {"phone": "123"}}`},
		{"malformed email", `{"application": "morizon", "customer": {"email": "nope", "phone": "123"}}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockLeadService)
			handler, _ := newTestHandler(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "CreateLead")
		})
	}
}

func TestHandler_CreateLead_DuplicateUUID(t *testing.T) {
	svc := new(MockLeadService)
	handler, _ := newTestHandler(svc)

	svc.On("CreateLead", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateUUID)

	body := `{
		"uuid": "taken",
		"application": "morizon",
		"customer": {"email": "jan@example.com", "phone": "+48123456789"}
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_GetLead(t *testing.T) {
	svc := new(MockLeadService)
	handler, _ := newTestHandler(svc)

	svc.On("GetLead", mock.Anything, "uuid-1").Return(storedLead("uuid-1"), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leads/uuid-1", nil)
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LeadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "uuid-1", resp.UUID)
	assert.Nil(t, resp.Property)
}

func TestHandler_GetLead_NotFound(t *testing.T) {
	svc := new(MockLeadService)
	handler, _ := newTestHandler(svc)

	svc.On("GetLead", mock.Anything, "gone").Return(nil, domain.ErrLeadNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leads/gone", nil)
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error)
}

func TestHandler_UpdateLeadStatus(t *testing.T) {
	svc := new(MockLeadService)
	handler, _ := newTestHandler(svc)

	updated := storedLead("uuid-1")
	updated.Status = domain.LeadStatusProcessed

	svc.On("UpdateLeadStatus", mock.Anything, "uuid-1", "processed").Return(updated, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/leads/uuid-1/status",
		bytes.NewBufferString(`{"status": "processed"}`))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LeadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "processed", resp.Status)
}

func TestHandler_UpdateLeadStatus_RejectsUnknownStatus(t *testing.T) {
	svc := new(MockLeadService)
	handler, _ := newTestHandler(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/leads/uuid-1/status",
		bytes.NewBufferString(`{"status": "archived"}`))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpdateLeadStatus")
}

func TestHandler_DeleteLead(t *testing.T) {
	svc := new(MockLeadService)
	handler, _ := newTestHandler(svc)

	svc.On("DeleteLead", mock.Anything, "uuid-1").Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/leads/uuid-1", nil)
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandler_InternalErrorHidesDetail(t *testing.T) {
	svc := new(MockLeadService)
	handler, _ := newTestHandler(svc)

	svc.On("GetLead", mock.Anything, "uuid-1").Return(nil, assert.AnError)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leads/uuid-1", nil)
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal_error", resp.Error)
	assert.Empty(t, resp.Message)
}

func TestHandler_HealthCheck(t *testing.T) {
	handler, auditLog := newTestHandler(new(MockLeadService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	auditLog.AssertNotCalled(t, "LogAPIRequest")
}
