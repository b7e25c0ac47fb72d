package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/epochml/epoch-ml/internal/models"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrEmailTaken          = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrUnavailable is returned when the service has no database pool.
	// Accounts need durable storage; there is no in-memory fallback here.
	ErrUnavailable = errors.New("user store unavailable")
)

type Service struct {
	db         *pgxpool.Pool
	bcryptCost int
}

func NewService(db *pgxpool.Pool, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{db: db, bcryptCost: bcryptCost}
}

const userColumns = `id, username, email, password_hash, credits, role, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Credits, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		username, email,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := scanUser(s.db.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password_hash, credits, role)
		 VALUES ($1, $2, $3, $4, $5, 'user')
		 RETURNING `+userColumns,
		uuid.New(), username, email, string(hash), models.StartingCredits,
	))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Authenticate checks an email/password pair. Both a missing account and a
// wrong password come back as ErrInvalidCredentials so callers can't probe
// which one it was.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}

	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	return scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	return scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Username != "" && upd.Username != u.Username {
		var taken bool
		if err := s.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
			upd.Username, id,
		).Scan(&taken); err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		u.Username = upd.Username
	}

	if upd.Email != "" && upd.Email != u.Email {
		var taken bool
		if err := s.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
			upd.Email, id,
		).Scan(&taken); err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
		u.Email = upd.Email
	}

	updated, err := scanUser(s.db.QueryRow(ctx,
		`UPDATE users SET username = $2, email = $3, updated_at = now() WHERE id = $1
		 RETURNING `+userColumns,
		id, u.Username, u.Email,
	))
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// Spend atomically debits credits and returns the remaining balance. The
// conditional update makes concurrent spends safe without a transaction.
func (s *Service) Spend(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	if s.db == nil {
		return 0, ErrUnavailable
	}

	var remaining int
	err := s.db.QueryRow(ctx,
		`UPDATE users SET credits = credits - $2, updated_at = now()
		 WHERE id = $1 AND credits >= $2
		 RETURNING credits`,
		id, amount,
	).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		u, lookupErr := s.GetByID(ctx, id)
		if lookupErr != nil {
			return 0, lookupErr
		}
		return 0, fmt.Errorf("%w: requires %d, have %d", ErrInsufficientCredits, amount, u.Credits)
	}
	if err != nil {
		return 0, fmt.Errorf("spend credits: %w", err)
	}
	return remaining, nil
}

// AddCredits credits an account and returns the new balance.
func (s *Service) AddCredits(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	if s.db == nil {
		return 0, ErrUnavailable
	}

	var balance int
	err := s.db.QueryRow(ctx,
		`UPDATE users SET credits = credits + $2, updated_at = now() WHERE id = $1
		 RETURNING credits`,
		id, amount,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("add credits: %w", err)
	}
	return balance, nil
}

func (s *Service) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if s.db == nil {
		return ErrUnavailable
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, string(hash),
	)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.db == nil {
		return ErrUnavailable
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every account, admin-only surface.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}

	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Credits, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}
