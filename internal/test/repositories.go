package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
)

// OrderRepositoryStub keeps orders in memory and records which persistence
// methods were invoked, so tests can assert strategy exclusivity.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]*model.Order
	Calls  []string

	CreateFn            func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn           func(context.Context, string) (*model.Order, error)
	ListByUserFn        func(context.Context, int64) ([]model.Order, error)
	ListByStatusFn      func(context.Context, model.OrderStatus) ([]model.Order, error)
	UpdateStatusFn      func(context.Context, string, model.OrderStatus) error
	SetDiscordBindingFn func(context.Context, string, string, string) error
	SetCredentialsFn    func(context.Context, string, model.Credentials, time.Time) error
	GetCredentialsFn    func(context.Context, string) (*model.Credentials, error)
	GetMetadataFn       func(context.Context, string) (*string, error)
	SetMetadataFn       func(context.Context, string, string, model.OrderStatus) error
}

// NewOrderRepositoryStub constructs a stub with an initialized order map.
func NewOrderRepositoryStub(orders ...*model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
	for _, o := range orders {
		s.Orders[o.ID] = o
	}
	return s
}

func (s *OrderRepositoryStub) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, call)
}

// CallCount returns how many times the named method was invoked.
func (s *OrderRepositoryStub) CallCount(call string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	s.record("Create")
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Unix(0, 0)
	}
	s.mu.Lock()
	s.Orders[order.ID] = order
	s.mu.Unlock()
	return order, nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s.record("GetByID")
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.Orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	s.record("ListByUser")
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.UserID != nil && *o.UserID == userID {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (s *OrderRepositoryStub) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	s.record("ListByStatus")
	if s.ListByStatusFn != nil {
		return s.ListByStatusFn(ctx, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.Status == status {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	s.record("UpdateStatus")
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *OrderRepositoryStub) SetDiscordBinding(ctx context.Context, id, threadID, webhookURL string) error {
	s.record("SetDiscordBinding")
	if s.SetDiscordBindingFn != nil {
		return s.SetDiscordBindingFn(ctx, id, threadID, webhookURL)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.ThreadID = &threadID
	o.WebhookURL = &webhookURL
	return nil
}

func (s *OrderRepositoryStub) SetCredentials(ctx context.Context, id string, creds model.Credentials, deliveredAt time.Time) error {
	s.record("SetCredentials")
	if s.SetCredentialsFn != nil {
		return s.SetCredentialsFn(ctx, id, creds, deliveredAt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.AccountID = &creds.AccountID
	o.AccountPassword = &creds.Password
	o.Status = model.OrderStatusActive
	o.DeliveryDate = &deliveredAt
	return nil
}

func (s *OrderRepositoryStub) GetCredentials(ctx context.Context, id string) (*model.Credentials, error) {
	s.record("GetCredentials")
	if s.GetCredentialsFn != nil {
		return s.GetCredentialsFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if o.AccountID == nil || *o.AccountID == "" {
		return nil, nil
	}
	creds := &model.Credentials{AccountID: *o.AccountID}
	if o.AccountPassword != nil {
		creds.Password = *o.AccountPassword
	}
	return creds, nil
}

func (s *OrderRepositoryStub) GetMetadata(ctx context.Context, id string) (*string, error) {
	s.record("GetMetadata")
	if s.GetMetadataFn != nil {
		return s.GetMetadataFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return o.Metadata, nil
}

func (s *OrderRepositoryStub) SetMetadata(ctx context.Context, id string, metadata string, status model.OrderStatus) error {
	s.record("SetMetadata")
	if s.SetMetadataFn != nil {
		return s.SetMetadataFn(ctx, id, metadata, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.Metadata = &metadata
	o.Status = status
	return nil
}

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by id or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// AdminRepositoryStub keeps admin grants in memory.
type AdminRepositoryStub struct {
	mu     sync.Mutex
	Grants map[int64]*model.AdminGrant
	Next   int64
	Err    error

	IsAdminFn func(context.Context, int64) (bool, error)
	LookupCnt int
}

// NewAdminRepositoryStub constructs a stub with the given admin user ids.
func NewAdminRepositoryStub(adminIDs ...int64) *AdminRepositoryStub {
	s := &AdminRepositoryStub{Grants: make(map[int64]*model.AdminGrant), Next: 1}
	for _, id := range adminIDs {
		s.Grants[id] = &model.AdminGrant{ID: s.Next, UserID: id, GrantedBy: 0}
		s.Next++
	}
	return s
}

func (s *AdminRepositoryStub) Grant(ctx context.Context, userID, grantedBy int64) (*model.AdminGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Grants[userID]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	grant := &model.AdminGrant{ID: s.Next, UserID: userID, GrantedBy: grantedBy, GrantedAt: time.Unix(0, 0)}
	s.Next++
	s.Grants[userID] = grant
	return grant, nil
}

func (s *AdminRepositoryStub) Revoke(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.Grants[userID]; !exists {
		return domainErrors.ErrNotFound
	}
	delete(s.Grants, userID)
	return nil
}

func (s *AdminRepositoryStub) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	s.LookupCnt++
	s.mu.Unlock()
	if s.IsAdminFn != nil {
		return s.IsAdminFn(ctx, userID)
	}
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Grants[userID]
	return ok, nil
}

func (s *AdminRepositoryStub) List(ctx context.Context) ([]model.AdminGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.AdminGrant
	for _, g := range s.Grants {
		result = append(result, *g)
	}
	return result, nil
}

// MessageRepositoryStub records posted messages.
type MessageRepositoryStub struct {
	mu       sync.Mutex
	Messages []model.Message
	Next     int64
	Err      error
}

func (s *MessageRepositoryStub) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Next++
	msg.ID = s.Next
	msg.CreatedAt = time.Unix(s.Next, 0)
	s.Messages = append(s.Messages, *msg)
	return msg, nil
}

func (s *MessageRepositoryStub) ListByOrder(ctx context.Context, orderID string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Message
	for _, m := range s.Messages {
		if m.OrderID == orderID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *MessageRepositoryStub) MarkRead(ctx context.Context, orderID string, fromAdmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.Messages {
		if s.Messages[i].OrderID == orderID && s.Messages[i].IsAdmin == fromAdmin {
			s.Messages[i].IsRead = true
		}
	}
	return nil
}

// Count returns the number of stored messages for the order.
func (s *MessageRepositoryStub) Count(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.Messages {
		if m.OrderID == orderID {
			n++
		}
	}
	return n
}

// ProofRepositoryStub keeps payment proofs in memory.
type ProofRepositoryStub struct {
	mu     sync.Mutex
	Proofs map[int64]*model.PaymentProof
	Next   int64
	Err    error
}

// NewProofRepositoryStub constructs a stub with an initialized map.
func NewProofRepositoryStub() *ProofRepositoryStub {
	return &ProofRepositoryStub{Proofs: make(map[int64]*model.PaymentProof)}
}

func (s *ProofRepositoryStub) Create(ctx context.Context, orderID, imageURL string) (*model.PaymentProof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Next++
	proof := &model.PaymentProof{
		ID:        s.Next,
		OrderID:   orderID,
		ImageURL:  imageURL,
		Status:    model.ProofStatusPending,
		CreatedAt: time.Unix(s.Next, 0),
	}
	s.Proofs[proof.ID] = proof
	return proof, nil
}

func (s *ProofRepositoryStub) GetByID(ctx context.Context, id int64) (*model.PaymentProof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Proofs[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ProofRepositoryStub) ListByOrder(ctx context.Context, orderID string) ([]model.PaymentProof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.PaymentProof
	for _, p := range s.Proofs {
		if p.OrderID == orderID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (s *ProofRepositoryStub) UpdateStatus(ctx context.Context, id int64, status model.ProofStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.Proofs[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	p.Status = status
	return nil
}
