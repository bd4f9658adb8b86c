package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/financeme/api/internal/domain/models"
	"github.com/lib/pq"
)

// ErrNotFound is returned when a row lookup by id or email matches nothing.
var ErrNotFound = errors.New("not found")

type Storage struct {
	db *sql.DB
}

func New(dbUrl string) (*Storage, error) {
	db, err := sql.Open("postgres", dbUrl)
	if err != nil {
		return nil, fmt.Errorf("database connection error %s", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect database error %s", err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Stop() error {
	return s.db.Close()
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (class 23505), e.g. a duplicate user email.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.SaveUser"

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		user.ID, user.Name, user.Email, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.postgres.GetUserByID"

	var user models.User

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transactions, err := s.GetTransactionsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.Transactions = transactions

	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.GetUserByEmail"

	var user models.User

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (s *Storage) GetUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.postgres.GetUsers"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
			&user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range users {
		transactions, err := s.GetTransactionsByUser(ctx, users[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users[i].Transactions = transactions
	}

	return users, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.UpdateUser"

	err := s.db.QueryRowContext(ctx,
		`UPDATE users SET name = $2, password_hash = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		user.ID, user.Name, user.PasswordHash,
	).Scan(&user.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteUser"

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return nil
}

func (s *Storage) SaveTransaction(ctx context.Context, transaction *models.Transaction) error {
	const op = "storage.postgres.SaveTransaction"

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO transactions (id, description, type, amount_cents, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		transaction.ID, transaction.Description, transaction.Type,
		transaction.AmountCents, transaction.UserID,
	).Scan(&transaction.CreatedAt, &transaction.UpdatedAt)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	const op = "storage.postgres.GetTransactionByID"

	var transaction models.Transaction

	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, type, amount_cents, user_id, created_at, updated_at
		 FROM transactions WHERE id = $1`, id,
	).Scan(&transaction.ID, &transaction.Description, &transaction.Type,
		&transaction.AmountCents, &transaction.UserID,
		&transaction.CreatedAt, &transaction.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &transaction, nil
}

func (s *Storage) GetTransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	const op = "storage.postgres.GetTransactionsByUser"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, type, amount_cents, user_id, created_at, updated_at
		 FROM transactions WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var transaction models.Transaction
		if err := rows.Scan(&transaction.ID, &transaction.Description, &transaction.Type,
			&transaction.AmountCents, &transaction.UserID,
			&transaction.CreatedAt, &transaction.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return transactions, nil
}

func (s *Storage) UpdateTransaction(ctx context.Context, transaction *models.Transaction) error {
	const op = "storage.postgres.UpdateTransaction"

	err := s.db.QueryRowContext(ctx,
		`UPDATE transactions SET description = $2, type = $3, amount_cents = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		transaction.ID, transaction.Description, transaction.Type, transaction.AmountCents,
	).Scan(&transaction.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteTransaction(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteTransaction"

	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return nil
}
