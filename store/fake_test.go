package store

import (
	"context"
	"errors"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/Cloud-Net-Park/Gravel/models"

	"github.com/stretchr/testify/mock"
)

var errUnreachable = errors.New("dial tcp: connection refused")

type rejectedError struct{ msg string }

func (e rejectedError) Error() string  { return e.msg }
func (e rejectedError) Rejected() bool { return true }

// fakeBackend keeps tables in memory. Setting an err field makes the
// matching call fail.
type fakeBackend struct {
	mu sync.Mutex

	products    []models.Product
	users       []models.User
	fitProfiles []models.FitProfile
	accounts    map[string]string // email -> password

	listProductsCalls int
	listProductsGate  chan struct{}
	staleProducts     bool // deactivation does not show up in reads

	listProductsErr error
	insertErr       error
	updateErr       error
	deactivateErr   error
	deactivateNone  bool
	deactivateAll   error
	listUsersErr    error
	fitErr          error
	signInErr       error
	signUpErr       error
	signOutErr      error
	subscribeErr    error

	signOuts int
	onChange func(models.ChangeEvent)
	sub      *fakeSub
	nextID   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{accounts: make(map[string]string)}
}

func (f *fakeBackend) id(prefix string) string {
	f.nextID++
	return prefix + strconv.Itoa(f.nextID)
}

func (f *fakeBackend) ListProducts(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	f.listProductsCalls++
	gate := f.listProductsGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listProductsErr != nil {
		return nil, f.listProductsErr
	}
	var out []models.Product
	for _, p := range f.products {
		if p.IsActive || f.staleProducts {
			p.IsActive = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) InsertProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return models.Product{}, f.insertErr
	}
	p := in.ToProduct()
	p.ID = f.id("p")
	p.CreatedAt = time.Now()
	f.products = append([]models.Product{p}, f.products...)
	return p, nil
}

func (f *fakeBackend) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return models.Product{}, f.updateErr
	}
	for i := range f.products {
		if f.products[i].ID == id {
			patch.Apply(&f.products[i])
			return f.products[i], nil
		}
	}
	return models.Product{}, rejectedError{"product not found"}
}

func (f *fakeBackend) DeactivateProduct(ctx context.Context, id string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deactivateErr != nil {
		return nil, f.deactivateErr
	}
	if f.deactivateNone {
		return nil, nil
	}
	var rows []models.Product
	for i := range f.products {
		if f.products[i].ID == id && f.products[i].IsActive {
			f.products[i].IsActive = false
			rows = append(rows, f.products[i])
		}
	}
	return rows, nil
}

func (f *fakeBackend) DeactivateAllProducts(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deactivateAll != nil {
		return 0, f.deactivateAll
	}
	var n int64
	for i := range f.products {
		if f.products[i].IsActive {
			f.products[i].IsActive = false
			n++
		}
	}
	return n, nil
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listUsersErr != nil {
		return nil, f.listUsersErr
	}
	return slices.Clone(f.users), nil
}

func (f *fakeBackend) ListFitProfiles(ctx context.Context) ([]models.FitProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fitErr != nil {
		return nil, f.fitErr
	}
	out := slices.Clone(f.fitProfiles)
	for i := range out {
		for _, u := range f.users {
			if u.ID == out[i].UserID {
				out[i].UserName, out[i].UserEmail = u.Name, u.Email
			}
		}
	}
	return out, nil
}

func (f *fakeBackend) UpsertFitProfile(ctx context.Context, in models.FitProfileInput) (models.FitProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fitErr != nil {
		return models.FitProfile{}, f.fitErr
	}
	profile := in.ToProfile()
	for i := range f.fitProfiles {
		if f.fitProfiles[i].UserID == in.UserID {
			profile.ID = f.fitProfiles[i].ID
			f.fitProfiles[i] = profile
			return profile, nil
		}
	}
	profile.ID = f.id("f")
	f.fitProfiles = append(f.fitProfiles, profile)
	return profile, nil
}

func (f *fakeBackend) UpdateFitProfile(ctx context.Context, userID string, patch models.FitProfilePatch) (models.FitProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fitErr != nil {
		return models.FitProfile{}, f.fitErr
	}
	for i := range f.fitProfiles {
		if f.fitProfiles[i].UserID == userID {
			patch.Apply(&f.fitProfiles[i])
			return f.fitProfiles[i], nil
		}
	}
	return models.FitProfile{}, rejectedError{"fit profile not found"}
}

func (f *fakeBackend) DeleteFitProfile(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fitErr != nil {
		return f.fitErr
	}
	f.fitProfiles = slices.DeleteFunc(f.fitProfiles, func(p models.FitProfile) bool { return p.UserID == userID })
	return nil
}

func (f *fakeBackend) SignIn(ctx context.Context, in models.UserLogin) (models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return models.Identity{}, f.signInErr
	}
	if pw, ok := f.accounts[in.Email]; !ok || pw != in.Password {
		return models.Identity{}, rejectedError{"invalid credentials"}
	}
	for _, u := range f.users {
		if u.Email == in.Email {
			return models.IdentityFor(u), nil
		}
	}
	return models.Identity{ID: "remote-" + in.Email, Email: in.Email}, nil
}

func (f *fakeBackend) SignUp(ctx context.Context, in models.UserRegister) (models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signUpErr != nil {
		return models.Identity{}, f.signUpErr
	}
	u := models.User{ID: f.id("u"), Name: in.Name, Email: in.Email, JoinedDate: time.Now()}
	f.users = append(f.users, u)
	f.accounts[in.Email] = in.Password
	return models.IdentityFor(u), nil
}

func (f *fakeBackend) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	return f.signOutErr
}

func (f *fakeBackend) Subscribe(ctx context.Context, table string, fn func(models.ChangeEvent)) (io.Closer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.onChange = fn
	f.sub = &fakeSub{}
	return f.sub, nil
}

func (f *fakeBackend) emit(event models.ChangeEvent) {
	f.mu.Lock()
	fn := f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn(event)
	}
}

func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type fakeSub struct {
	mu     sync.Mutex
	closed bool
}

func (s *fakeSub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSub) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// recordingScheduler runs reconciles inline and remembers their delays.
type recordingScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingScheduler) AfterFunc(d time.Duration, fn func()) {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	fn()
}

func (r *recordingScheduler) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.delays)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) LoadUser() (*models.User, error) {
	args := m.Called()
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockSessions) SaveUser(user models.User) error {
	return m.Called(user).Error(0)
}

func (m *mockSessions) ClearUser() error {
	return m.Called().Error(0)
}
