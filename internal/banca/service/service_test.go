package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lotolink/internal/banca/credentials"
	"lotolink/internal/banca/metrics"
	"lotolink/internal/banca/models"
	"lotolink/internal/banca/service/mocks"
	"lotolink/internal/banca/store"
	id "lotolink/pkg/domain"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/platform/audit"
	"lotolink/pkg/platform/audit/publisher"
	auditmemory "lotolink/pkg/platform/audit/store/memory"
	"lotolink/pkg/requestcontext"
)

var clientIDPattern = regexp.MustCompile(`^client_[0-9a-f]{32}$`)

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *store.InMemoryStore
	auditLog *auditmemory.InMemoryStore
	metrics  *metrics.Metrics
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.store = store.NewInMemoryStore()
	s.auditLog = auditmemory.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.store,
		WithAuditPublisher(publisher.NewPublisher(s.auditLog)),
		WithMetrics(s.metrics),
	)
}

func (s *ServiceSuite) create(name, email string) *models.Banca {
	b, err := s.service.CreateBanca(s.ctx, &models.CreateBancaRequest{
		Name:            name,
		Email:           email,
		IntegrationType: "api",
	})
	s.Require().NoError(err)
	return b
}

func (s *ServiceSuite) TestCreateBanca() {
	s.Run("starts pending and inactive with defaults", func() {
		b := s.create("Banca Uno", "uno@test.com")
		s.Equal(models.StatusPending, b.Status)
		s.False(b.IsActive)
		s.Equal(models.AuthHMAC, b.AuthType)
		s.Equal(5000, b.SlaMs)
		s.False(b.HasCredentials())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.BancasCreated))
	})

	s.Run("duplicate email is a conflict and is not persisted", func() {
		_, err := s.service.CreateBanca(s.ctx, &models.CreateBancaRequest{
			Name: "Banca Dos", Email: "UNO@test.com", IntegrationType: "api",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Contains(err.Error(), "email")

		all, err := s.service.GetAllBancas(s.ctx, false)
		s.Require().NoError(err)
		s.Len(all, 1)
	})

	s.Run("name is checked before email", func() {
		_, err := s.service.CreateBanca(s.ctx, &models.CreateBancaRequest{
			Name: "banca uno", Email: "uno@test.com", IntegrationType: "api",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Contains(err.Error(), "name")
	})

	s.Run("rejects unknown integration type", func() {
		_, err := s.service.CreateBanca(s.ctx, &models.CreateBancaRequest{
			Name: "Banca Tres", Email: "tres@test.com", IntegrationType: "fax",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects commission above 100", func() {
		pct := decimal.NewFromInt(101)
		_, err := s.service.CreateBanca(s.ctx, &models.CreateBancaRequest{
			Name: "Banca Cuatro", Email: "cuatro@test.com", IntegrationType: "api", CommissionPercentage: &pct,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestApproveHappyPath() {
	b := s.create("Banca Uno", "uno@test.com")

	res, err := s.service.ApproveBanca(s.ctx, b.ID, "https://banca-uno.example/api")
	s.Require().NoError(err)

	s.Equal(models.StatusActive, res.Banca.Status)
	s.True(res.Banca.IsActive)
	s.Equal("https://banca-uno.example/api", res.Banca.Endpoint)
	s.Regexp(clientIDPattern, res.Credentials.ClientID)
	s.NotEmpty(res.Credentials.ClientSecret)
	s.NotEmpty(res.Credentials.HMACSecret)
	s.NotEqual(res.Credentials.ClientSecret, res.Credentials.HMACSecret)
	s.NotEqual(res.Credentials.ClientID, res.Credentials.ClientSecret)
	s.NotEqual(res.Credentials.ClientSecret, res.Banca.ClientSecretHash, "secret is stored hashed")

	_, err = s.service.ApproveBanca(s.ctx, b.ID, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Contains(err.Error(), "not in pending status")

	events, err := s.auditLog.ListBySubject(s.ctx, b.ID.String())
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	s.Equal([]string{string(audit.EventBancaCreated), string(audit.EventBancaApproved)}, actions)
}

func (s *ServiceSuite) TestStateMachineGuards() {
	for _, setup := range []struct {
		name string
		move func(id.BancaID)
	}{
		{"active", func(bid id.BancaID) { _, err := s.service.ApproveBanca(s.ctx, bid, ""); s.Require().NoError(err) }},
		{"rejected", func(bid id.BancaID) { _, err := s.service.RejectBanca(s.ctx, bid); s.Require().NoError(err) }},
		{"suspended", func(bid id.BancaID) { _, err := s.service.SuspendBanca(s.ctx, bid); s.Require().NoError(err) }},
	} {
		s.Run(setup.name, func() {
			b := s.create("Banca "+setup.name, setup.name+"@test.com")
			setup.move(b.ID)
			before, err := s.service.GetBancaByID(s.ctx, b.ID)
			s.Require().NoError(err)

			_, err = s.service.ApproveBanca(s.ctx, b.ID, "")
			s.True(dErrors.HasCode(err, dErrors.CodeConflict))
			_, err = s.service.RejectBanca(s.ctx, b.ID)
			s.True(dErrors.HasCode(err, dErrors.CodeConflict))

			after, err := s.service.GetBancaByID(s.ctx, b.ID)
			s.Require().NoError(err)
			s.Equal(before, after)
		})
	}
}

func (s *ServiceSuite) TestRejectFromPending() {
	b := s.create("Banca Uno", "uno@test.com")
	got, err := s.service.RejectBanca(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, got.Status)
	s.False(got.IsActive)
	s.False(got.HasCredentials())
}

func (s *ServiceSuite) TestSuspendThenActivateKeepsStatus() {
	b := s.create("Banca Uno", "uno@test.com")
	_, err := s.service.ApproveBanca(s.ctx, b.ID, "")
	s.Require().NoError(err)

	suspended, err := s.service.SuspendBanca(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusSuspended, suspended.Status)
	s.False(suspended.IsActive)

	activated, err := s.service.ActivateBanca(s.ctx, b.ID)
	s.Require().NoError(err)
	s.True(activated.IsActive)
	s.Equal(models.StatusSuspended, activated.Status)

	deactivated, err := s.service.DeactivateBanca(s.ctx, b.ID)
	s.Require().NoError(err)
	s.False(deactivated.IsActive)
	s.Equal(models.StatusSuspended, deactivated.Status)
}

func (s *ServiceSuite) TestNotFound() {
	missing := id.BancaID(uuid.New())
	_, err := s.service.GetBancaByID(s.ctx, missing)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.ApproveBanca(s.ctx, missing, "")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.RejectBanca(s.ctx, missing)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.SuspendBanca(s.ctx, missing)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.ActivateBanca(s.ctx, missing)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	name := "x"
	_, err = s.service.UpdateBanca(s.ctx, missing, &models.UpdateBancaRequest{Name: &name})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUpdateBanca() {
	b := s.create("Banca Uno", "uno@test.com")
	phone := "+1 809 555 0100"
	address := "Calle 1"
	_, err := s.service.UpdateBanca(s.ctx, b.ID, &models.UpdateBancaRequest{Phone: &phone, Address: &address})
	s.Require().NoError(err)

	later := requestcontext.WithTime(s.ctx, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))

	s.Run("omitted fields are untouched", func() {
		rnc := "131-00000-1"
		got, err := s.service.UpdateBanca(later, b.ID, &models.UpdateBancaRequest{RNC: &rnc})
		s.Require().NoError(err)
		s.Equal("131-00000-1", got.RNC)
		s.Equal(phone, got.Phone)
		s.Equal(address, got.Address)
		s.True(got.UpdatedAt.After(b.UpdatedAt))
		s.Equal(b.CreatedAt, got.CreatedAt)
	})

	s.Run("empty string clears an optional field", func() {
		empty := ""
		got, err := s.service.UpdateBanca(later, b.ID, &models.UpdateBancaRequest{Phone: &empty})
		s.Require().NoError(err)
		s.Empty(got.Phone)
		s.Equal(address, got.Address)
	})

	s.Run("name cannot be cleared", func() {
		empty := ""
		_, err := s.service.UpdateBanca(later, b.ID, &models.UpdateBancaRequest{Name: &empty})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("renaming onto another banca conflicts", func() {
		s.create("Banca Dos", "dos@test.com")
		name := "BANCA DOS"
		_, err := s.service.UpdateBanca(later, b.ID, &models.UpdateBancaRequest{Name: &name})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ServiceSuite) TestListing() {
	a := s.create("A", "a@test.com")
	s.create("B", "b@test.com")
	_, err := s.service.ApproveBanca(s.ctx, a.ID, "")
	s.Require().NoError(err)

	active, err := s.service.GetAllBancas(s.ctx, true)
	s.Require().NoError(err)
	s.Len(active, 1)

	pending, err := s.service.GetBancasByStatus(s.ctx, models.StatusPending)
	s.Require().NoError(err)
	s.Len(pending, 1)

	_, err = s.service.GetBancasByStatus(s.ctx, models.Status("archived"))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestRotateAndAuthenticate() {
	b := s.create("Banca Uno", "uno@test.com")

	_, err := s.service.RotateCredentials(s.ctx, b.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "pending bancas have nothing to rotate")

	issued, err := s.service.ApproveBanca(s.ctx, b.ID, "")
	s.Require().NoError(err)

	got, err := s.service.AuthenticateClient(s.ctx, issued.Credentials.ClientID, issued.Credentials.ClientSecret)
	s.Require().NoError(err)
	s.Equal(b.ID, got.ID)

	_, err = s.service.AuthenticateClient(s.ctx, issued.Credentials.ClientID, "wrong")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	rotated, err := s.service.RotateCredentials(s.ctx, b.ID)
	s.Require().NoError(err)
	s.NotEqual(issued.Credentials.ClientID, rotated.Credentials.ClientID)

	_, err = s.service.AuthenticateClient(s.ctx, issued.Credentials.ClientID, issued.Credentials.ClientSecret)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized), "old credentials stop working")

	_, err = s.service.SuspendBanca(s.ctx, b.ID)
	s.Require().NoError(err)
	_, err = s.service.AuthenticateClient(s.ctx, rotated.Credentials.ClientID, rotated.Credentials.ClientSecret)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestConcurrentApprovalsSingleWinner() {
	b := s.create("Banca Uno", "uno@test.com")

	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.ApproveBanca(s.ctx, b.ID, "")
			switch {
			case err == nil:
				wins.Add(1)
			case dErrors.HasCode(err, dErrors.CodeConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), wins.Load())
	s.Equal(int32(7), conflicts.Load())
}

func TestApproveGeneratorFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockStore(ctrl)
	mockGen := mocks.NewMockCredentialGenerator(ctrl)

	mockGen.EXPECT().Generate().Return(credentials.Credentials{}, errors.New("entropy exhausted"))
	mockStore.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	svc := New(mockStore, WithCredentialGenerator(mockGen))
	_, err := svc.ApproveBanca(context.Background(), id.BancaID(uuid.New()), "")
	if !dErrors.HasCode(err, dErrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestStoreFailureIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockStore(ctrl)
	mockAudit := mocks.NewMockAuditPublisher(ctrl)

	mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(0)

	svc := New(mockStore, WithAuditPublisher(mockAudit))
	_, err := svc.CreateBanca(context.Background(), &models.CreateBancaRequest{
		Name: "Banca Uno", Email: "uno@test.com", IntegrationType: "api",
	})
	if !dErrors.HasCode(err, dErrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestAuditFailureDoesNotFailApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditPublisher(ctrl)
	mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("broker down")).AnyTimes()

	svc := New(store.NewInMemoryStore(), WithAuditPublisher(mockAudit))
	ctx := context.Background()
	b, err := svc.CreateBanca(ctx, &models.CreateBancaRequest{Name: "Banca Uno", Email: "uno@test.com", IntegrationType: "api"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ApproveBanca(ctx, b.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
}
