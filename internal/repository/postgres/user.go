package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
)

const userColumns = `id, username, password_hash, name, role, COALESCE(photo, ''), created_on`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row scanner) (*domain.User, error) {
	u := &domain.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Role, &u.Photo, &u.CreatedOn); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, username, password_hash, name, role, photo, created_on) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	u.CreatedOn = time.Now().UTC()
	_, err := conn(ctx, r.db).ExecContext(ctx, query, u.ID, u.Username, u.PasswordHash, u.Name, u.Role, u.Photo, u.CreatedOn)
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`
	return scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, username))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	logger.EnterMethod("userRepository.List")
	logger.DatabaseCall("SELECT", "users")

	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		logger.ExitMethodWithError("userRepository.List", err)
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.ExitMethodWithError("userRepository.List", err)
			return nil, err
		}
		users = append(users, *u)
	}

	logger.DatabaseResult("SELECT", int64(len(users)), nil)
	logger.ExitMethod("userRepository.List", "count", len(users))
	return users, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}
