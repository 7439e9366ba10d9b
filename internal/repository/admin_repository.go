package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/acme/faculty/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEmailTaken is returned when an admin with the same email exists.
var ErrEmailTaken = errors.New("admin email already exists")

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	Create(ctx context.Context, admin *model.Admin) error
}

type adminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at FROM admins WHERE lower(email) = lower($1)`,
		email,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (email, name, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`,
		admin.Email, admin.Name, admin.PasswordHash,
	).Scan(&admin.ID, &admin.CreatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

type memoryAdminRepository struct {
	mu     sync.RWMutex
	admins map[string]model.Admin
	nextID int
}

// NewMemoryAdminRepository keeps admins in process memory, keyed by lower-cased email.
func NewMemoryAdminRepository() AdminRepository {
	return &memoryAdminRepository{admins: map[string]model.Admin{}, nextID: 1}
}

func (r *memoryAdminRepository) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.admins[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *memoryAdminRepository) Create(_ context.Context, admin *model.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(admin.Email)
	if _, exists := r.admins[key]; exists {
		return ErrEmailTaken
	}
	admin.ID = r.nextID
	admin.CreatedAt = time.Now().UTC()
	r.nextID++
	r.admins[key] = *admin
	return nil
}
