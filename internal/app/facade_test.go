package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/playvault/storefront/internal/admincheck"
	"github.com/playvault/storefront/internal/creds"
	"github.com/playvault/storefront/internal/delivery"
	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/moderation"
	"github.com/playvault/storefront/internal/notify"
	"github.com/playvault/storefront/internal/storage/schemacap"
	testhelpers "github.com/playvault/storefront/internal/test"
	"github.com/playvault/storefront/internal/usecase"
)

type notifierStub struct {
	jobs []notify.Job
}

func (n *notifierStub) Enqueue(job notify.Job) {
	n.jobs = append(n.jobs, job)
}

type execPoolStub struct {
	err error
}

func (p *execPoolStub) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, p.err
}

type schemaFixerStub struct {
	calls int
	err   error
}

func (s *schemaFixerStub) EnsureDeliveryColumns(context.Context) error {
	s.calls++
	return s.err
}

type healthStub struct {
	err error
}

func (h *healthStub) HealthCheck(context.Context) error {
	return h.err
}

type facadeFixture struct {
	facade   *StorefrontFacade
	users    *testhelpers.UserRepositoryStub
	orders   *testhelpers.OrderRepositoryStub
	discord  *testhelpers.DiscordClientStub
	notifier *notifierStub
	schema   *schemaFixerStub
	health   *healthStub
}

func newFacadeFixture(orders ...*model.Order) *facadeFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &notifierStub{}

	userRepo := testhelpers.NewUserRepositoryStub()
	strategy := testhelpers.StrategyStub{ParseFn: func(string) (int64, error) { return 99, nil }}
	authUC := usecase.NewAuthUseCase(userRepo, testhelpers.HasherStub{}, strategy)

	orderRepo := testhelpers.NewOrderRepositoryStub(orders...)
	discordStub := &testhelpers.DiscordClientStub{}
	orderUC := usecase.NewOrderUseCase(orderRepo, discordStub, notifier, logger)
	proofUC := usecase.NewProofUseCase(&testhelpers.ProofRepositoryStub{}, orderRepo)
	messageUC := usecase.NewMessageUseCase(&testhelpers.MessageRepositoryStub{}, orderRepo, notifier)

	remote := &testhelpers.FulfillmentClientStub{}
	moderationSvc := moderation.NewService(orderRepo, remote, notifier, logger)

	reconciler := delivery.NewReconciler(
		orderRepo,
		&testhelpers.CapabilitySourceStub{Caps: schemacap.Capabilities{AccountColumns: true, Metadata: true}},
		creds.NewGenerator(),
		remote,
		delivery.NewMemoryVault(),
		logger,
	)

	adminSvc := admincheck.NewService(&testhelpers.AdminRepositoryStub{}, time.Minute, nil, logger)

	schema := &schemaFixerStub{}
	health := &healthStub{}
	detector := schemacap.NewDetector(&execPoolStub{}, logger)

	facade := NewStorefrontFacade(
		authUC,
		orderUC,
		proofUC,
		messageUC,
		moderationSvc,
		reconciler,
		adminSvc,
		discordStub,
		orderRepo,
		notifier,
		schema,
		health,
		detector,
	)
	return &facadeFixture{
		facade:   facade,
		users:    userRepo,
		orders:   orderRepo,
		discord:  discordStub,
		notifier: notifier,
		schema:   schema,
		health:   health,
	}
}

func TestStorefrontFacadeAuth(t *testing.T) {
	f := newFacadeFixture()
	token, err := f.facade.Register(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	stored, err := f.users.GetByLogin(context.Background(), "user")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.Login != "user" {
		t.Fatalf("unexpected stored login %q", stored.Login)
	}

	token, err = f.facade.Authenticate(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	id, err := f.facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if id != 99 {
		t.Fatalf("expected id 99, got %d", id)
	}
}

func TestStorefrontFacadeCheckoutAndModeration(t *testing.T) {
	f := newFacadeFixture()

	order, err := f.facade.Checkout(context.Background(), usecase.CheckoutInput{FullName: "Jane Doe", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("checkout returned error: %v", err)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}

	approved, err := f.facade.ApproveOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	if approved.Status != model.OrderStatusActive {
		t.Fatalf("expected active order, got %s", approved.Status)
	}
}

func TestStorefrontFacadeDeliverAccount(t *testing.T) {
	order := &model.Order{ID: "ord-1", Status: model.OrderStatusActive}
	f := newFacadeFixture(order)

	result, err := f.facade.DeliverAccount(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("deliver returned error: %v", err)
	}
	if result.AccountID == "" || result.Password == "" {
		t.Fatalf("expected generated credentials, got %+v", result)
	}
	if result.Method != model.DeliveryMethodDirect {
		t.Fatalf("expected direct delivery, got %s", result.Method)
	}

	if _, err := f.facade.DeliverAccount(context.Background(), "ord-1"); !errors.Is(err, domainErrors.ErrAlreadyDelivered) {
		t.Fatalf("expected ErrAlreadyDelivered on repeat, got %v", err)
	}
}

func TestStorefrontFacadeDeliverAccountNotifiesCustomer(t *testing.T) {
	order := &model.Order{ID: "ord-1", Status: model.OrderStatusActive}
	f := newFacadeFixture(order)

	if _, err := f.facade.DeliverAccount(context.Background(), "ord-1"); err != nil {
		t.Fatalf("deliver returned error: %v", err)
	}
	// The repeat attempt is rejected by the guard and must not announce.
	if _, err := f.facade.DeliverAccount(context.Background(), "ord-1"); !errors.Is(err, domainErrors.ErrAlreadyDelivered) {
		t.Fatalf("expected ErrAlreadyDelivered on repeat, got %v", err)
	}

	var delivered []notify.Job
	for _, job := range f.notifier.jobs {
		if job.Event == notify.EventOrderDelivered {
			delivered = append(delivered, job)
		}
	}
	if len(delivered) != 1 {
		t.Fatalf("expected exactly one delivered announcement, got %d", len(delivered))
	}
	if delivered[0].Order == nil || delivered[0].Order.ID != "ord-1" {
		t.Fatalf("announcement carries wrong order: %+v", delivered[0].Order)
	}
}

func TestStorefrontFacadePing(t *testing.T) {
	f := newFacadeFixture()
	if err := f.facade.Ping(context.Background()); err != nil {
		t.Fatalf("ping returned error: %v", err)
	}

	f.health.err = errors.New("pool down")
	if err := f.facade.Ping(context.Background()); err == nil {
		t.Fatal("expected error when storage is unreachable")
	}
}

func TestStorefrontFacadeBindOrderThread(t *testing.T) {
	order := &model.Order{ID: "ord-1", Status: model.OrderStatusPending}
	f := newFacadeFixture(order)

	binding, err := f.facade.BindOrderThread(context.Background(), "ord-1", "Jane Doe!", "https://img.example/proof.png")
	if err != nil {
		t.Fatalf("bind returned error: %v", err)
	}
	if binding.ThreadID == "" || binding.WebhookURL == "" {
		t.Fatalf("unexpected binding: %+v", binding)
	}
	if len(f.discord.ThreadsCreated) != 1 || !strings.HasPrefix(f.discord.ThreadsCreated[0], "jane-doe-") {
		t.Fatalf("unexpected thread names: %v", f.discord.ThreadsCreated)
	}
	if len(f.discord.WebhookPosts) != 1 {
		t.Fatalf("expected proof link posted to webhook, got %v", f.discord.WebhookPosts)
	}

	stored := f.orders.Orders["ord-1"]
	if stored.ThreadID == nil || *stored.ThreadID != binding.ThreadID {
		t.Fatalf("expected binding persisted, got %+v", stored)
	}
}

func TestStorefrontFacadeBindOrderThreadUnknownOrder(t *testing.T) {
	f := newFacadeFixture()
	if _, err := f.facade.BindOrderThread(context.Background(), "ghost", "", ""); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorefrontFacadeFixOrdersSchema(t *testing.T) {
	f := newFacadeFixture()
	if err := f.facade.FixOrdersSchema(context.Background()); err != nil {
		t.Fatalf("fix schema returned error: %v", err)
	}
	if f.schema.calls != 1 {
		t.Fatalf("expected one migration call, got %d", f.schema.calls)
	}

	f.schema.err = errors.New("ddl blocked")
	if err := f.facade.FixOrdersSchema(context.Background()); err == nil {
		t.Fatal("expected error when migration fails")
	}
}

func TestSanitizeThreadName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "jane-doe"},
		{"  !!??  ", "order"},
		{"UPPER_case name", "upper-case-name"},
		{strings.Repeat("a", 40), strings.Repeat("a", 32)},
	}
	for _, tc := range tests {
		if got := sanitizeThreadName(tc.in); got != tc.want {
			t.Fatalf("sanitizeThreadName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
