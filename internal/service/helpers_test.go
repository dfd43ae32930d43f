package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/password"
	"notekeeper-be/internal/pkg/token"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/testutil"
	"notekeeper-be/pkg/events"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BaseEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.BaseEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func (p *recordingPublisher) last() events.BaseEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type recordingMailer struct {
	sent chan string
}

func (m *recordingMailer) SendWelcome(toEmail, _ string) error {
	m.sent <- toEmail
	return nil
}

type fixture struct {
	db        *gorm.DB
	uow       unitofwork.RepositoryFactory
	clock     *testutil.Clock
	tokens    *token.Manager
	publisher *recordingPublisher
	auth      *authService
	notes     *noteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	uow := unitofwork.NewRepositoryFactory(db)
	tokens := token.NewManager(testSecret, token.DefaultTTL).WithClock(clock.Now)
	pub := &recordingPublisher{}
	log := logger.NewNopLogger()

	auth := NewAuthService(uow, password.NewBcryptHasher(bcrypt.MinCost), tokens, pub, nil, log).(*authService)
	auth.now = clock.Now

	notes := NewNoteService(uow, pub).(*noteService)
	notes.now = clock.Now

	return &fixture{
		db:        db,
		uow:       uow,
		clock:     clock,
		tokens:    tokens,
		publisher: pub,
		auth:      auth,
		notes:     notes,
	}
}

func (f *fixture) verify(t *testing.T, raw string) *token.Identity {
	t.Helper()
	identity, err := f.tokens.Verify(raw)
	require.NoError(t, err)
	return identity
}

func (f *fixture) tick() {
	f.clock.Advance(time.Minute)
}
