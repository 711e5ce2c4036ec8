package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"hotel_listing/internal/domain"
)

func (r *Repo) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return r.queryLocations(ctx, listLocationsSQL)
}

func (r *Repo) GetLocations(ctx context.Context, ids []int64) ([]domain.Location, error) {
	if len(ids) == 0 {
		return []domain.Location{}, nil
	}
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return r.queryLocations(ctx, getLocationsPrefix+placeholders(len(ids)), args...)
}

func (r *Repo) FindByState(ctx context.Context, state string) (domain.Location, error) {
	l, err := scanLocation(r.db.QueryRowContext(ctx, locationByStateSQL, state))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, domain.NotFoundf("State not found")
	}
	return l, err
}

// FindIDs matches state and city exactly, case included; nil means any.
func (r *Repo) FindIDs(ctx context.Context, state, city *string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, findLocationIDsSQL, valStr(state), valStr(state), valStr(city), valStr(city))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *Repo) CreateLocation(ctx context.Context, l *domain.Location) error {
	res, err := r.db.ExecContext(ctx, insertLocationSQL, l.State, jsonList(l.Cities))
	if isDuplicate(err) {
		return domain.Conflictf("location %q already exists", l.State)
	}
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	if l.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	created, err := scanLocation(r.db.QueryRowContext(ctx, locationByStateSQL, l.State))
	if err != nil {
		return err
	}
	*l = created
	return nil
}

func (r *Repo) SaveCities(ctx context.Context, id int64, cities []string) error {
	res, err := r.db.ExecContext(ctx, saveCitiesSQL, jsonList(cities), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 for unchanged rows too; confirm the row exists.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM locations WHERE id = ?`, id).Scan(&one); errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("Location not found")
		}
	}
	return nil
}

func (r *Repo) queryLocations(ctx context.Context, q string, args ...any) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLocation(s scanner) (domain.Location, error) {
	var l domain.Location
	var cities []byte
	if err := s.Scan(&l.ID, &l.State, &cities, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return domain.Location{}, err
	}
	if err := json.Unmarshal(cities, &l.Cities); err != nil {
		return domain.Location{}, fmt.Errorf("location %d cities: %w", l.ID, err)
	}
	if l.Cities == nil {
		l.Cities = []string{}
	}
	return l, nil
}
