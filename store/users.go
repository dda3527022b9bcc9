package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymlog/common"
)

var ErrEmailTaken = errors.New("email already registered")

func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (int, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user WHERE email = ?", email).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return 0, ErrEmailTaken
	}
	res, err := s.db.ExecContext(ctx, "INSERT INTO user(name,email,password) VALUES(?,?,?)", name, email, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return int(id), nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (common.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, "SELECT id,name,email,password,admin FROM user WHERE email = ?", email))
}

func (s *Store) UserByID(ctx context.Context, id int) (common.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, "SELECT id,name,email,password,admin FROM user WHERE id = ?", id))
}

func (s *Store) scanUser(row *sql.Row) (common.User, error) {
	var u common.User
	err := row.Scan(&u.Id, &u.Name, &u.Email, &u.Password, &u.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return common.User{}, ErrNotFound
	}
	if err != nil {
		return common.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
