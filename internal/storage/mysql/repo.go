package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotel_listing/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func jsonList[T any](v []T) string {
	if v == nil {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func placeholders(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?,", n), ",") + ")"
}

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

type scanner interface{ Scan(dest ...any) error }

// Repo implements the hotel, location and user repositories on one pool.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertHotelSQL,
		h.Name,
		h.LocationID,
		h.Description,
		h.Contact.Phone,
		nullIfEmpty(h.Contact.WhatsApp),
		h.Contact.Address,
		h.WhatsAppTemplate,
		jsonList(h.Amenities),
		jsonList(h.Images),
		h.CreatedAt,
		h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert hotel: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := insertRooms(ctx, tx, id, h.Rooms); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	h.ID = id
	return nil
}

// UpdateHotel rewrites the row and replaces its rooms.
func (r *Repo) UpdateHotel(ctx context.Context, h *domain.Hotel) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, updateHotelSQL,
		h.Name,
		h.LocationID,
		h.Description,
		h.Contact.Phone,
		nullIfEmpty(h.Contact.WhatsApp),
		h.Contact.Address,
		h.WhatsAppTemplate,
		jsonList(h.Amenities),
		jsonList(h.Images),
		h.UpdatedAt,
		h.ID,
	); err != nil {
		return fmt.Errorf("update hotel %d: %w", h.ID, err)
	}
	if _, err := tx.ExecContext(ctx, deleteRoomsSQL, h.ID); err != nil {
		return err
	}
	if err := insertRooms(ctx, tx, h.ID, h.Rooms); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRooms(ctx context.Context, tx *sql.Tx, hotelID int64, rooms []domain.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	values := make([]string, 0, len(rooms))
	args := make([]any, 0, len(rooms)*4)
	for i, rm := range rooms {
		values = append(values, "(?,?,?,?)")
		args = append(args, hotelID, i, rm.Type, rm.Price)
	}
	if _, err := tx.ExecContext(ctx, insertRoomsPrefix+strings.Join(values, ","), args...); err != nil {
		return fmt.Errorf("insert rooms: %w", err)
	}
	return nil
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("Hotel not found")
	}
	return nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.NotFoundf("Hotel not found")
	}
	if err != nil {
		return domain.Hotel{}, err
	}
	out := []domain.Hotel{h}
	if err := r.attachRooms(ctx, out); err != nil {
		return domain.Hotel{}, err
	}
	return out[0], nil
}

func (r *Repo) HotelNameExists(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, hotelNameExistsSQL, name).Scan(&ok)
	return ok, err
}

// hotelWhere renders the filter as a WHERE clause. A non-nil empty
// LocationIDs matches nothing.
func hotelWhere(f domain.HotelFilter) (string, []any) {
	var conds []string
	var args []any
	if f.LocationIDs != nil {
		if len(f.LocationIDs) == 0 {
			conds = append(conds, "1 = 0")
		} else {
			conds = append(conds, "h.location_id IN "+placeholders(len(f.LocationIDs)))
			for _, id := range f.LocationIDs {
				args = append(args, id)
			}
		}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		conds = append(conds, roomPriceExists)
		args = append(args, valF64(f.MinPrice), valF64(f.MinPrice), valF64(f.MaxPrice), valF64(f.MaxPrice))
	}
	for _, a := range f.Amenities {
		conds = append(conds, "JSON_CONTAINS(h.amenities->'$', JSON_QUOTE(?))")
		args = append(args, a)
	}
	if f.Text != nil {
		like := "%" + escapeLike(strings.ToLower(*f.Text)) + "%"
		conds = append(conds, "(LOWER(h.name) LIKE ? OR LOWER(h.description) LIKE ?)")
		args = append(args, like, like)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conds, "\n  AND "), args
}

// escapeLike makes user text literal inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repo) FindHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	where, args := hotelWhere(f)
	args = append(args, f.Limit, f.Offset)
	rows, err := r.db.QueryContext(ctx, findHotelsPrefix+where+findHotelsOrder, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, r.attachRooms(ctx, out)
}

func (r *Repo) CountHotels(ctx context.Context, f domain.HotelFilter) (int, error) {
	where, args := hotelWhere(f)
	var n int
	err := r.db.QueryRowContext(ctx, countHotelsPrefix+where, args...).Scan(&n)
	return n, err
}

// SearchHotels ranks by full-text relevance over name and description.
func (r *Repo) SearchHotels(ctx context.Context, text string, limit int) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, searchHotelsSQL, text, text, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		var score float64
		h, err := scanHotel(rows, &score)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, r.attachRooms(ctx, out)
}

func scanHotel(s scanner, extra ...any) (domain.Hotel, error) {
	var h domain.Hotel
	var whatsapp sql.NullString
	var amenitiesJSON, imagesJSON []byte
	dest := []any{
		&h.ID, &h.Name, &h.LocationID, &h.Description,
		&h.Contact.Phone, &whatsapp, &h.Contact.Address,
		&h.WhatsAppTemplate, &amenitiesJSON, &imagesJSON,
		&h.CreatedAt, &h.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return domain.Hotel{}, err
	}
	h.Contact.WhatsApp = whatsapp.String
	if err := json.Unmarshal(amenitiesJSON, &h.Amenities); err != nil {
		return domain.Hotel{}, fmt.Errorf("hotel %d amenities: %w", h.ID, err)
	}
	if err := json.Unmarshal(imagesJSON, &h.Images); err != nil {
		return domain.Hotel{}, fmt.Errorf("hotel %d images: %w", h.ID, err)
	}
	if h.Amenities == nil {
		h.Amenities = []string{}
	}
	if h.Images == nil {
		h.Images = []string{}
	}
	return h, nil
}

// attachRooms loads rooms for all hotels in one query.
func (r *Repo) attachRooms(ctx context.Context, hs []domain.Hotel) error {
	if len(hs) == 0 {
		return nil
	}
	args := make([]any, 0, len(hs))
	idx := make(map[int64]int, len(hs))
	for i, h := range hs {
		args = append(args, h.ID)
		idx[h.ID] = i
		hs[i].Rooms = []domain.Room{}
	}
	rows, err := r.db.QueryContext(ctx, roomsForHotelsPrefix+placeholders(len(hs))+" ORDER BY hotel_id, position", args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var rm domain.Room
		if err := rows.Scan(&id, &rm.Type, &rm.Price); err != nil {
			return err
		}
		if i, ok := idx[id]; ok {
			hs[i].Rooms = append(hs[i].Rooms, rm)
		}
	}
	return rows.Err()
}
