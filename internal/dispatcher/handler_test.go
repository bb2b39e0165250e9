package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/cdp"
	"github.com/malyszg/lms-sub001/internal/domain"
)

// MockLeadRepository is a mock implementation of repository.LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Insert(ctx context.Context, lead *domain.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByUUID(ctx context.Context, uuid string) (*domain.Lead, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, uuid, status string) error {
	args := m.Called(ctx, uuid, status)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockLeadRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLeadRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLeadRepository) Close() {
	m.Called()
}

// MockDeliverer is a mock implementation of LeadDeliverer
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) DeliverLead(ctx context.Context, lead *domain.Lead, msg domain.CDPLeadMessage) []cdp.SystemOutcome {
	args := m.Called(ctx, lead, msg)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]cdp.SystemOutcome)
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

func testLead(uuid string) *domain.Lead {
	return &domain.Lead{
		ID:          1,
		UUID:        uuid,
		Application: "gratka",
		Status:      domain.LeadStatusNew,
		Customer: domain.Customer{
			Email: "test@example.com",
			Phone: "+48123456789",
		},
	}
}

func TestHandler_Handle_DeliversLead(t *testing.T) {
	repo := new(MockLeadRepository)
	deliverer := new(MockDeliverer)
	auditLog := new(MockAuditLogger)

	lead := testLead("uuid-1")
	msg := domain.CDPLeadMessage{LeadID: 1, LeadUUID: "uuid-1"}

	repo.On("FindByUUID", mock.Anything, "uuid-1").Return(lead, nil)
	deliverer.On("DeliverLead", mock.Anything, lead, msg).
		Return([]cdp.SystemOutcome{{System: cdp.SalesManago, Delivered: true, StatusCode: 200}})

	handler := NewHandler(repo, deliverer, auditLog, zap.NewNop())

	outcome := handler.Handle(context.Background(), msg)

	assert.Equal(t, OutcomeCompleted, outcome)
	repo.AssertExpectations(t)
	deliverer.AssertExpectations(t)
}

func TestHandler_Handle_LeadNotFoundConsumesMessage(t *testing.T) {
	repo := new(MockLeadRepository)
	deliverer := new(MockDeliverer)
	auditLog := new(MockAuditLogger)

	repo.On("FindByUUID", mock.Anything, "gone").Return(nil, domain.ErrLeadNotFound)
	auditLog.On("LogCDPDispatchError", mock.Anything, "gone", mock.Anything).Once()

	handler := NewHandler(repo, deliverer, auditLog, zap.NewNop())

	outcome := handler.Handle(context.Background(), domain.CDPLeadMessage{LeadUUID: "gone"})

	// handled failure, never an error past the handler boundary
	assert.Equal(t, OutcomeHandledFailure, outcome)
	deliverer.AssertNotCalled(t, "DeliverLead")
	auditLog.AssertExpectations(t)
}

func TestHandler_Handle_RepositoryErrorConsumesMessage(t *testing.T) {
	repo := new(MockLeadRepository)
	deliverer := new(MockDeliverer)
	auditLog := new(MockAuditLogger)

	repo.On("FindByUUID", mock.Anything, "uuid-1").Return(nil, errors.New("connection lost"))
	auditLog.On("LogCDPDispatchError", mock.Anything, "uuid-1", "connection lost").Once()

	handler := NewHandler(repo, deliverer, auditLog, zap.NewNop())

	outcome := handler.Handle(context.Background(), domain.CDPLeadMessage{LeadUUID: "uuid-1"})

	assert.Equal(t, OutcomeHandledFailure, outcome)
	deliverer.AssertNotCalled(t, "DeliverLead")
}

func TestHandler_Handle_ReplayIsSafe(t *testing.T) {
	repo := new(MockLeadRepository)
	deliverer := new(MockDeliverer)
	auditLog := new(MockAuditLogger)

	lead := testLead("uuid-1")
	msg := domain.CDPLeadMessage{LeadID: 1, LeadUUID: "uuid-1"}

	repo.On("FindByUUID", mock.Anything, "uuid-1").Return(lead, nil).Times(2)
	deliverer.On("DeliverLead", mock.Anything, lead, msg).
		Return([]cdp.SystemOutcome{{System: cdp.SalesManago, Delivered: true}}).Times(2)

	handler := NewHandler(repo, deliverer, auditLog, zap.NewNop())

	// the queue may redeliver the same message; replay must stay read-only
	assert.Equal(t, OutcomeCompleted, handler.Handle(context.Background(), msg))
	assert.Equal(t, OutcomeCompleted, handler.Handle(context.Background(), msg))

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Insert")
	repo.AssertNotCalled(t, "UpdateStatus")
	repo.AssertNotCalled(t, "Delete")
}

func TestHandler_Start_AcksEveryEnvelope(t *testing.T) {
	repo := new(MockLeadRepository)
	deliverer := new(MockDeliverer)
	auditLog := new(MockAuditLogger)

	repo.On("FindByUUID", mock.Anything, "gone").Return(nil, domain.ErrLeadNotFound)
	auditLog.On("LogCDPDispatchError", mock.Anything, "gone", mock.Anything)

	handler := NewHandler(repo, deliverer, auditLog, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	acked := make(chan struct{}, 1)
	envelope := NewEnvelope(domain.CDPLeadMessage{LeadUUID: "gone"},
		func(context.Context) error {
			acked <- struct{}{}
			return nil
		}, nil)

	in := make(chan *Envelope, 1)
	in <- envelope

	go handler.Start(ctx, in)

	select {
	case <-acked:
		// failed handling still consumes the message
	case <-time.After(time.Second):
		t.Fatal("envelope was not acknowledged")
	}
}

func TestHandler_Start_StopsWhenInputCloses(t *testing.T) {
	handler := NewHandler(new(MockLeadRepository), new(MockDeliverer), new(MockAuditLogger), zap.NewNop())

	in := make(chan *Envelope)
	close(in)

	done := make(chan struct{})
	go func() {
		handler.Start(context.Background(), in)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not stop after input channel closed")
	}
}
