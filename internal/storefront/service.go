package storefront

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tair/storefront/internal/cart"
	"github.com/tair/storefront/internal/cart/storage"
	catalog "github.com/tair/storefront/internal/catalog/domain"
	"github.com/tair/storefront/internal/nav"
	"github.com/tair/storefront/internal/notify"
	"github.com/tair/storefront/internal/search"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/session"
)

// Config holds the session settings of the service
type Config struct {
	IdleTTL     time.Duration
	NotifyTTL   time.Duration
	SearchDelay time.Duration
	SlowDelay   time.Duration
}

// Session is the state of one shopper on one page
type Session struct {
	ID     string
	Page   Page
	Cart   *cart.Manager
	Search *search.Session
	Nav    *nav.Tracker

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.Search.Close()
	s.Cart.Close()
}

// Service keeps the live shopper sessions
type Service struct {
	catalog *catalog.Catalog
	pages   *Pages
	store   storage.Storage
	issuer  *session.Issuer
	events  cart.EventPublisher
	metrics *cart.Metrics
	cfg     Config
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a storefront service. events may be nil.
func NewService(
	cfg Config,
	c *catalog.Catalog,
	store storage.Storage,
	issuer *session.Issuer,
	events cart.EventPublisher,
	metrics *cart.Metrics,
) *Service {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.NotifyTTL <= 0 {
		cfg.NotifyTTL = notify.DefaultTTL
	}
	return &Service{
		catalog:  c,
		pages:    NewPages(c, cfg.SearchDelay, cfg.SlowDelay),
		store:    store,
		issuer:   issuer,
		events:   events,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Catalog returns the catalog served by the shop
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Pages returns the page set
func (s *Service) Pages() *Pages {
	return s.pages
}

// Open starts a new session on a page and returns its signed token
func (s *Service) Open(ctx context.Context, pageKey string) (string, *Session, error) {
	page, err := s.pages.Get(pageKey)
	if err != nil {
		return "", nil, err
	}

	token, claims, err := s.issuer.Issue(page.Key)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	sess := s.attach(ctx, claims.SessionID, page)
	logger.Info(ctx).
		Str("session_id", sess.ID).
		Str("page", page.Key).
		Msg("Session opened")
	return token, sess, nil
}

// Resume validates a session token and returns its session. A session that
// expired from memory is rebuilt; its cart is reloaded from storage.
func (s *Service) Resume(ctx context.Context, token string) (*Session, error) {
	claims, err := s.issuer.Validate(token)
	if err != nil {
		return nil, err
	}

	if sess, err := s.Lookup(claims.SessionID); err == nil {
		return sess, nil
	}

	page, err := s.pages.Get(claims.Page)
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, claims.SessionID, page), nil
}

// Lookup returns a live session and marks it as used
func (s *Service) Lookup(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.touch(s.now())
	return sess, nil
}

// Len returns the number of live sessions
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) attach(ctx context.Context, id string, page Page) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.touch(s.now())
		return sess
	}

	scoped := page.Scope(s.catalog)
	manager := cart.Load(ctx, id, storage.WithNamespace(s.store, "session:"+id),
		cart.WithNotifier(notify.New(s.cfg.NotifyTTL)),
		cart.WithEvents(s.events),
		cart.WithMetrics(s.metrics),
		cart.WithPage(page.Key),
	)

	pinned := append([]string(nil), page.Pinned...)
	sess := &Session{
		ID:       id,
		Page:     page,
		Cart:     manager,
		Search:   search.NewSession(scoped, page.SearchDelay, nil),
		Nav:      nav.NewTracker(page.DefaultActive, pinned...),
		lastSeen: s.now(),
	}
	s.sessions[id] = sess
	return sess
}

// Sweep closes sessions idle for longer than the configured TTL and returns
// how many were removed. Their carts stay in storage.
func (s *Service) Sweep(ctx context.Context) int {
	cutoff := s.now().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}
	if len(expired) > 0 {
		logger.Debug(ctx).Int("expired", len(expired)).Msg("Idle sessions swept")
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Close ends every live session
func (s *Service) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}
