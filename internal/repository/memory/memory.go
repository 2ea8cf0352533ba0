// Package memory provides in-process implementations of the repositories and
// the unit-of-work manager. It backs the service when no Postgres DSN is
// configured and the service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ecyclehub/ecyclehub/internal/domain"
	"github.com/ecyclehub/ecyclehub/internal/repository"
)

type state struct {
	users         map[int64]domain.User
	byUsername    map[string]int64
	byEmail       map[string]int64
	byContact     map[string]int64
	registrations []domain.Registration
	nextUserID    int64
	nextRegID     int64
}

func newState() *state {
	return &state{
		users:      map[int64]domain.User{},
		byUsername: map[string]int64{},
		byEmail:    map[string]int64{},
		byContact:  map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := &state{
		users:         make(map[int64]domain.User, len(s.users)),
		byUsername:    make(map[string]int64, len(s.byUsername)),
		byEmail:       make(map[string]int64, len(s.byEmail)),
		byContact:     make(map[string]int64, len(s.byContact)),
		registrations: append([]domain.Registration(nil), s.registrations...),
		nextUserID:    s.nextUserID,
		nextRegID:     s.nextRegID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.byUsername {
		c.byUsername[k] = v
	}
	for k, v := range s.byEmail {
		c.byEmail[k] = v
	}
	for k, v := range s.byContact {
		c.byContact[k] = v
	}
	return c
}

// Store holds users and registrations in memory. A unit of work takes a
// coarse lock and works on a staged copy that replaces the live state only
// on commit.
type Store struct {
	mu            sync.Mutex
	state         *state
	uniqueContact bool
	now           func() time.Time

	catalogMu     sync.RWMutex
	sites         []domain.DropOffSite
	announcements []domain.Announcement
}

// Option configures a Store.
type Option func(*Store)

// WithUniqueContact makes contact numbers unique across users.
func WithUniqueContact(unique bool) Option {
	return func(s *Store) { s.uniqueContact = unique }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{state: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Users returns a repository that operates outside any unit of work.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{store: s}
}

// Registrations returns a repository that operates outside any unit of work.
func (s *Store) Registrations() repository.RegistrationRepository {
	return &registrationRepo{store: s}
}

// Community returns the catalogue repository.
func (s *Store) Community() repository.CommunityRepository {
	return &communityRepo{store: s}
}

// RunInTx implements repository.TxManager.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, stores repository.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	if err := fn(ctx, &txStores{store: s, staged: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// SeedDropOffSite adds a drop-off site to the catalogue.
func (s *Store) SeedDropOffSite(site domain.DropOffSite) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	site.ID = int64(len(s.sites) + 1)
	if site.CreatedAt.IsZero() {
		site.CreatedAt = s.now()
	}
	s.sites = append(s.sites, site)
}

// SeedAnnouncement adds an announcement to the catalogue.
func (s *Store) SeedAnnouncement(a domain.Announcement) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	a.ID = int64(len(s.announcements) + 1)
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	s.announcements = append(s.announcements, a)
}

// view runs fn against the staged state of a unit of work, or against the
// live state under the store lock.
func (s *Store) view(staged *state, fn func(st *state) error) error {
	if staged != nil {
		return fn(staged)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

type txStores struct {
	store  *Store
	staged *state
}

func (t *txStores) Users() repository.UserRepository {
	return &userRepo{store: t.store, staged: t.staged}
}

func (t *txStores) Registrations() repository.RegistrationRepository {
	return &registrationRepo{store: t.store, staged: t.staged}
}

type userRepo struct {
	store  *Store
	staged *state
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	return r.store.view(r.staged, func(st *state) error {
		if _, taken := st.byUsername[user.Username]; taken {
			return &repository.ConflictError{Field: "username", Constraint: repository.ConstraintUsername}
		}
		if _, taken := st.byEmail[user.Email]; taken {
			return &repository.ConflictError{Field: "email", Constraint: repository.ConstraintEmail}
		}
		if r.store.uniqueContact && user.Contact != nil {
			if _, taken := st.byContact[*user.Contact]; taken {
				return &repository.ConflictError{Field: "contact", Constraint: repository.ConstraintContact}
			}
		}

		st.nextUserID++
		user.ID = st.nextUserID
		user.CreatedAt = r.store.now()
		st.users[user.ID] = *user
		st.byUsername[user.Username] = user.ID
		st.byEmail[user.Email] = user.ID
		if user.Contact != nil {
			st.byContact[*user.Contact] = user.ID
		}
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	var found domain.User
	err := r.store.view(r.staged, func(st *state) error {
		user, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var id int64
	err := r.store.view(r.staged, func(st *state) error {
		found, ok := st.byUsername[username]
		if !ok {
			return repository.ErrNotFound
		}
		id = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

type registrationRepo struct {
	store  *Store
	staged *state
}

func (r *registrationRepo) Create(_ context.Context, reg *domain.Registration) error {
	return r.store.view(r.staged, func(st *state) error {
		if _, ok := st.users[reg.UserID]; !ok {
			return repository.ErrNotFound
		}
		st.nextRegID++
		reg.ID = st.nextRegID
		reg.CreatedAt = r.store.now()
		st.registrations = append(st.registrations, *reg)
		return nil
	})
}

func (r *registrationRepo) ListByUser(_ context.Context, userID int64) ([]domain.Registration, error) {
	result := []domain.Registration{}
	err := r.store.view(r.staged, func(st *state) error {
		for _, reg := range st.registrations {
			if reg.UserID == userID {
				result = append(result, reg)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

type communityRepo struct {
	store *Store
}

func (r *communityRepo) ListDropOffSites(_ context.Context) ([]domain.DropOffSite, error) {
	r.store.catalogMu.RLock()
	defer r.store.catalogMu.RUnlock()
	sites := append([]domain.DropOffSite{}, r.store.sites...)
	sort.SliceStable(sites, func(i, j int) bool { return sites[i].Name < sites[j].Name })
	return sites, nil
}

func (r *communityRepo) ListAnnouncements(_ context.Context, limit int) ([]domain.Announcement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	r.store.catalogMu.RLock()
	defer r.store.catalogMu.RUnlock()
	announcements := append([]domain.Announcement{}, r.store.announcements...)
	sort.SliceStable(announcements, func(i, j int) bool {
		return announcements[i].CreatedAt.After(announcements[j].CreatedAt)
	})
	if len(announcements) > limit {
		announcements = announcements[:limit]
	}
	return announcements, nil
}
