package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/mail"
)

type memoryUsers struct {
	mu   sync.Mutex
	byID map[string]domain.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]domain.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	m.byID[user.ID] = *user
	return nil
}

func (m *memoryUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now().UTC()
	m.byID[user.ID] = *user
	return nil
}

func (m *memoryUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ID == id })
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == email })
}

func (m *memoryUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Username == username })
}

func (m *memoryUsers) ListActive(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.byID {
		if u.Active {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memoryUsers) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memoryCategories struct {
	byID map[string]domain.Category
}

func (m *memoryCategories) Create(_ context.Context, category *domain.Category) error {
	category.ID = uuid.NewString()
	m.byID[category.ID] = *category
	return nil
}

func (m *memoryCategories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &category, nil
}

func (m *memoryCategories) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}

type memoryProducts struct {
	byID map[string]domain.Product
}

func (m *memoryProducts) Create(_ context.Context, product *domain.Product) error {
	product.ID = uuid.NewString()
	m.byID[product.ID] = *product
	return nil
}

func (m *memoryProducts) Update(_ context.Context, product *domain.Product) error {
	if _, ok := m.byID[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.byID[product.ID] = *product
	return nil
}

func (m *memoryProducts) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	product, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &product, nil
}

func (m *memoryProducts) List(_ context.Context, limit, offset int) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type recordingOutbox struct {
	mu   sync.Mutex
	jobs []mail.Job
	err  error
}

func (o *recordingOutbox) Enqueue(_ context.Context, job mail.Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.jobs = append(o.jobs, job)
	return nil
}

func (o *recordingOutbox) Close() error { return nil }

func (o *recordingOutbox) last() (mail.Job, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.jobs) == 0 {
		return mail.Job{}, false
	}
	return o.jobs[len(o.jobs)-1], true
}
