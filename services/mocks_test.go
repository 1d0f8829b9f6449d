package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/Dosada05/tournament-registration/brackets"
	"github.com/Dosada05/tournament-registration/models"
	"github.com/Dosada05/tournament-registration/repositories"
	"github.com/Dosada05/tournament-registration/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type mockEntrantRepo struct {
	mu          sync.Mutex
	entrants    []*models.Entrant
	createErr   error
	listErr     error
	createCalls int
}

func (m *mockEntrantRepo) Create(ctx context.Context, e *models.Entrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.ID = len(m.entrants) + 1
	stored := *e
	m.entrants = append(m.entrants, &stored)
	return nil
}

func (m *mockEntrantRepo) ListAll(ctx context.Context) ([]*models.Entrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.Entrant, len(m.entrants))
	copy(out, m.entrants)
	return out, nil
}

func (m *mockEntrantRepo) seed(name string, category models.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entrants = append(m.entrants, &models.Entrant{
		ID:               len(m.entrants) + 1,
		Name:             name,
		Email:            name + "@club.test",
		Phone:            "07000000000",
		Category:         category,
		Fee:              FeeFor(category),
		PaymentReference: "pi_seed_" + name,
	})
}

type mockFixtureRepo struct {
	mu          sync.Mutex
	fixtures    []*models.Fixture
	createErr   error
	listErr     error
	createCalls int
	// failOnCall > 0 проваливает только вызов CreateBatch с этим номером
	failOnCall int
}

func (m *mockFixtureRepo) CreateBatch(ctx context.Context, fixtures []*models.Fixture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if len(fixtures) == 0 {
		return nil
	}
	if m.createErr != nil {
		return m.createErr
	}
	if m.failOnCall == m.createCalls {
		return errStoreDown
	}
	m.fixtures = append(m.fixtures, fixtures...)
	return nil
}

func (m *mockFixtureRepo) ListAll(ctx context.Context) ([]*models.Fixture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.Fixture, len(m.fixtures))
	copy(out, m.fixtures)
	return out, nil
}

type mockSettingsRepo struct {
	mu     sync.Mutex
	open   bool
	getErr error
	setErr error
	sets   int
}

func newOpenSettings() *mockSettingsRepo { return &mockSettingsRepo{open: true} }

func (m *mockSettingsRepo) GetRegistrationOpen(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	return m.open, nil
}

func (m *mockSettingsRepo) SetRegistrationOpen(ctx context.Context, open bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.open = open
	return nil
}

func (m *mockSettingsRepo) isOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	user.ID = len(m.users) + 1
	stored := *user
	m.users[user.Email] = &stored
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	stored := *user
	return &stored, nil
}

type mockGateway struct {
	mu      sync.Mutex
	err     error
	calls   int
	amounts []int
	// onCharge runs after the charge is accepted
	onCharge func()
}

func (m *mockGateway) Charge(ctx context.Context, amount int) (*PaymentConfirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.amounts = append(m.amounts, amount)
	if m.err != nil {
		return nil, m.err
	}
	if m.onCharge != nil {
		m.onCharge()
	}
	return &PaymentConfirmation{Reference: newPaymentReference(), Amount: amount, Currency: Currency}, nil
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []brackets.WebSocketMessage
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, ok := message.(brackets.WebSocketMessage); ok {
		b.messages = append(b.messages, msg)
	}
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	for i, m := range b.messages {
		out[i] = m.Type
	}
	return out
}

type mockUploader struct {
	err    error
	keys   []string
	bodies [][]byte
}

func (m *mockUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	m.keys = append(m.keys, key)
	m.bodies = append(m.bodies, body)
	return &storage.UploadResult{Key: key, Location: m.GetPublicURL(key)}, nil
}

func (m *mockUploader) GetPublicURL(key string) string {
	return "https://cdn.club.test/" + key
}

var errStoreDown = errors.New("store unavailable")
