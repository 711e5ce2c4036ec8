package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hotel_listing/internal/domain"
)

func (r *Repo) CreateUser(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if isDuplicate(err) {
		return domain.Conflictf("User already exists with this email")
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (r *Repo) UpdateUser(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, updateUserSQL, u.Name, u.Email, u.PasswordHash, u.Role, u.UpdatedAt, u.ID)
	if isDuplicate(err) {
		return domain.Conflictf("Email already in use by another account")
	}
	return err
}

func (r *Repo) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteUserSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("User not found")
	}
	return nil
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return r.oneUser(ctx, getUserSQL, id)
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.oneUser(ctx, userByEmailSQL, email)
}

func (r *Repo) ListUsers(ctx context.Context, c domain.UserCriteria) ([]domain.User, int, error) {
	var like *string
	if c.Search != nil {
		p := "%" + escapeLike(strings.ToLower(*c.Search)) + "%"
		like = &p
	}
	where := []any{c.ExcludeID, valStr(like), valStr(like), valStr(like)}

	var total int
	if err := r.db.QueryRowContext(ctx, countUsersSQL, where...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, listUsersSQL, append(where, c.Limit, c.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *Repo) oneUser(ctx context.Context, q string, arg any) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.NotFoundf("User not found")
	}
	return u, err
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
