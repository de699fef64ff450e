package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// handles user persistence in Postgres
type PostgresRepository struct {
	db *pgxpool.Pool
}

// creates a new Postgres-backed user repository
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// inserts a new account; the caller sets plan, language, and password hash
func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if user.ChatHistory == nil {
		user.ChatHistory = []Message{}
	}

	if user.Readings == nil {
		user.Readings = []Reading{}
	}

	row := r.db.QueryRow(
		ctx,
		queryCreate,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Provider,
		user.ProviderID,
		user.Plan,
		user.MinutesLeftToday,
		user.UsedMinutesToday,
		user.LastResetDate,
		user.Language,
		user.SubscriptionID,
		user.ChatHistory,
		user.Readings,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	return created, nil
}

// finds a user by their ID
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryFindByID, id))
}

// finds a user by email address
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryFindByEmail, email))
}

// finds a user by OAuth provider or creates a new one with an empty plan
//
// When the provider identity is new but the email already belongs to a
// password account, the identity is attached to that account so the seeker
// keeps their plan, minutes, and history.
func (r *PostgresRepository) FindOrCreateByProvider(
	ctx context.Context,
	provider, providerID, email, name string,
) (*User, error) {
	user, err := scanUser(r.db.QueryRow(
		ctx,
		queryFindOrCreateByProvider,
		uuid.NewString(),
		email,
		name,
		provider,
		providerID,
		time.Now().Format("2006-01-02"),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// email unique violation: the account exists without this identity
			return scanUser(r.db.QueryRow(ctx, queryAttachProvider, email, provider, providerID, name))
		}

		return nil, err
	}

	return user, nil
}

// applies fn to the account under a row lock and persists the result
func (r *PostgresRepository) Update(ctx context.Context, id string, fn func(*User) error) (*User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	user, err := scanUser(tx.QueryRow(ctx, queryLockByID, id))
	if err != nil {
		return nil, err
	}

	if err := fn(user); err != nil {
		return nil, err
	}

	updated, err := scanUser(tx.QueryRow(
		ctx,
		queryUpdate,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Plan,
		user.MinutesLeftToday,
		user.UsedMinutesToday,
		user.LastResetDate,
		user.Language,
		user.SubscriptionID,
		user.ChatHistory,
		user.Readings,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit user update: %w", err)
	}

	return updated, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Provider,
		&user.ProviderID,
		&user.Plan,
		&user.MinutesLeftToday,
		&user.UsedMinutesToday,
		&user.LastResetDate,
		&user.Language,
		&user.SubscriptionID,
		&user.ChatHistory,
		&user.Readings,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &user, nil
}
