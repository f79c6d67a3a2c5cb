// Package store is the storefront's state container. It caches the catalogue
// and user list from the backend service and owns the session-local cart,
// orders and fit profiles. Its methods are the only write path.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Cloud-Net-Park/Gravel/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

// Backend is the hosted service the Store reads from and writes to.
type Backend interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	InsertProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error)
	DeactivateProduct(ctx context.Context, id string) ([]models.Product, error)
	DeactivateAllProducts(ctx context.Context) (int64, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	ListFitProfiles(ctx context.Context) ([]models.FitProfile, error)
	UpsertFitProfile(ctx context.Context, in models.FitProfileInput) (models.FitProfile, error)
	UpdateFitProfile(ctx context.Context, userID string, patch models.FitProfilePatch) (models.FitProfile, error)
	DeleteFitProfile(ctx context.Context, userID string) error

	SignIn(ctx context.Context, in models.UserLogin) (models.Identity, error)
	SignUp(ctx context.Context, in models.UserRegister) (models.Identity, error)
	SignOut(ctx context.Context) error

	Subscribe(ctx context.Context, table string, fn func(models.ChangeEvent)) (io.Closer, error)
}

// SessionStore keeps the signed-in user across runs.
type SessionStore interface {
	LoadUser() (*models.User, error)
	SaveUser(user models.User) error
	ClearUser() error
}

// Delays between a product mutation and the read that reconciles it.
type Delays struct {
	// Reconcile follows a successful add or update, and a rejected delete.
	Reconcile time.Duration
	// DeleteConfirm follows a delete that reported changed rows.
	DeleteConfirm time.Duration
	// DeleteRetry follows a delete that reported no changed rows.
	DeleteRetry time.Duration
	// ErrorRetry follows a delete that never reached the service.
	ErrorRetry time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Reconcile:     500 * time.Millisecond,
		DeleteConfirm: time.Second,
		DeleteRetry:   1500 * time.Millisecond,
		ErrorRetry:    2 * time.Second,
	}
}

// DefaultPollInterval is how often products and users are refetched.
const DefaultPollInterval = 5 * time.Second

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for degraded remote calls.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithScheduler replaces the timer-based scheduler for delayed reconciles.
func WithScheduler(sched Scheduler) Option {
	return func(s *Store) { s.sched = sched }
}

// WithClock sets the time source for local ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPollInterval sets how often Start refetches products and users.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) { s.pollInterval = d }
}

// WithDelays overrides the reconcile delays.
func WithDelays(d Delays) Option {
	return func(s *Store) { s.delays = d }
}

// Store holds the storefront state. It is safe for concurrent use.
type Store struct {
	backend      Backend
	sessions     SessionStore
	logger       *slog.Logger
	sched        Scheduler
	now          func() time.Time
	pollInterval time.Duration
	delays       Delays
	validate     *validator.Validate

	// ctx outlives Start/Close cycles of the background loops and is only
	// canceled by Close; delayed reconciles run under it.
	ctx    context.Context
	cancel context.CancelFunc

	refresh singleflight.Group

	mu          sync.RWMutex
	products    []models.Product
	users       []models.User
	orders      []models.Order
	cart        []models.CartItem
	fitProfiles []models.FitProfile
	currentUser *models.User
	isAdmin     bool
	reachable   bool
	orderSeq    int
	lastStamp   int64

	lifeMu   sync.Mutex
	started  bool
	closed   bool
	stopLoop context.CancelFunc
	sub      io.Closer
	wg       sync.WaitGroup
}

// New creates a Store and restores the signed-in user from sessions, which
// may be nil. Call Start to begin syncing with the backend.
func New(backend Backend, sessions SessionStore, opts ...Option) *Store {
	s := &Store{
		backend:      backend,
		sessions:     sessions,
		logger:       slog.Default(),
		now:          time.Now,
		pollInterval: DefaultPollInterval,
		delays:       DefaultDelays(),
		reachable:    true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sched == nil {
		s.sched = NewTimerScheduler()
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.validate = validator.New()
	s.validate.SetTagName("binding")

	if sessions != nil {
		user, err := sessions.LoadUser()
		if err != nil {
			s.logger.Warn("could not restore session", "error", err)
		} else if user != nil {
			s.currentUser = user
		}
	}
	return s
}

// Start loads products and users, subscribes to product changes and starts
// the poll loop. A failed subscription is logged; polling still runs.
func (s *Store) Start(ctx context.Context) error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.closed {
		return errors.New("store: closed")
	}
	if s.started {
		return nil
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.stopLoop = cancel

	_ = s.RefreshProducts(runCtx)
	_ = s.RefreshUsers(runCtx)

	sub, err := s.backend.Subscribe(runCtx, models.TableProducts, func(models.ChangeEvent) {
		_ = s.RefreshProducts(runCtx)
	})
	if err != nil {
		s.logger.Warn("product change feed unavailable, relying on polling", "error", err)
	} else {
		s.sub = sub
	}

	s.wg.Add(1)
	go s.poll(runCtx)
	return nil
}

func (s *Store) poll(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.RefreshProducts(ctx)
			_ = s.RefreshUsers(ctx)
		}
	}
}

// Close stops the poll loop, the change feed and any pending reconciles.
func (s *Store) Close() error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	s.cancel()
	if s.stopLoop != nil {
		s.stopLoop()
	}
	var err error
	if s.sub != nil {
		err = s.sub.Close()
	}
	s.wg.Wait()
	if stopper, ok := s.sched.(interface{ Stop() }); ok {
		stopper.Stop()
	}
	return err
}

// localID builds an id for a record created without the backend. Ids stay
// unique when two records are created within the same millisecond.
func (s *Store) localID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now().UnixMilli()
	if ms <= s.lastStamp {
		ms = s.lastStamp + 1
	}
	s.lastStamp = ms
	return fmt.Sprintf("%s-%d", prefix, ms)
}

// Products returns the active catalogue in backend order.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

// Product looks up a cached product by id.
func (s *Store) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.orders)
}

func (s *Store) CartItems() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cart)
}

func (s *Store) FitProfiles() []models.FitProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.fitProfiles)
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser
	return &u
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAdmin
}

// BackendReachable is false after a failed product fetch, until the next
// successful one.
func (s *Store) BackendReachable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reachable
}
