package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"gymlog/common"
)

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func (s *Store) CreateCardio(ctx context.Context, userID int, u common.CardioUpdate, date time.Time) (common.CardioRecord, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO cardio(user_id,name,date,distance,duration) VALUES(?,?,?,?,?)",
		userID, u.Name, date.UTC(), u.Distance, u.Duration)
	if err != nil {
		return common.CardioRecord{}, fmt.Errorf("insert cardio: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return common.CardioRecord{}, fmt.Errorf("insert cardio: %w", err)
	}
	return s.Cardio(ctx, userID, strconv.FormatInt(id, 10))
}

func (s *Store) Cardio(ctx context.Context, userID int, id string) (common.CardioRecord, error) {
	n, err := parseID(id)
	if err != nil {
		return common.CardioRecord{}, err
	}
	var (
		rec  common.CardioRecord
		rid  int64
		date sqlTime
	)
	err = s.db.QueryRowContext(ctx,
		"SELECT id,name,date,distance,duration FROM cardio WHERE id = ? AND user_id = ?", n, userID).
		Scan(&rid, &rec.Name, &date, &rec.Distance, &rec.Duration)
	if errors.Is(err, sql.ErrNoRows) {
		return common.CardioRecord{}, ErrNotFound
	}
	if err != nil {
		return common.CardioRecord{}, fmt.Errorf("select cardio: %w", err)
	}
	rec.Id = strconv.FormatInt(rid, 10)
	rec.Date = formatDate(date.Time)
	return rec, nil
}

func (s *Store) UpdateCardio(ctx context.Context, userID int, id string, u common.CardioUpdate) (common.CardioRecord, error) {
	if _, err := s.Cardio(ctx, userID, id); err != nil {
		return common.CardioRecord{}, err
	}
	n, _ := parseID(id)
	_, err := s.db.ExecContext(ctx,
		"UPDATE cardio SET name = ?, distance = ?, duration = ? WHERE id = ? AND user_id = ?",
		u.Name, u.Distance, u.Duration, n, userID)
	if err != nil {
		return common.CardioRecord{}, fmt.Errorf("update cardio: %w", err)
	}
	return s.Cardio(ctx, userID, id)
}

func (s *Store) DeleteCardio(ctx context.Context, userID int, id string) error {
	return s.deleteRow(ctx, "DELETE FROM cardio WHERE id = ? AND user_id = ?", userID, id)
}

func (s *Store) CreateResistance(ctx context.Context, userID int, u common.ResistanceUpdate, date time.Time) (common.ResistanceRecord, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO resistance(user_id,name,date,weight,sets,reps) VALUES(?,?,?,?,?,?)",
		userID, u.Name, date.UTC(), u.Weight, u.Sets, u.Reps)
	if err != nil {
		return common.ResistanceRecord{}, fmt.Errorf("insert resistance: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return common.ResistanceRecord{}, fmt.Errorf("insert resistance: %w", err)
	}
	return s.Resistance(ctx, userID, strconv.FormatInt(id, 10))
}

func (s *Store) Resistance(ctx context.Context, userID int, id string) (common.ResistanceRecord, error) {
	n, err := parseID(id)
	if err != nil {
		return common.ResistanceRecord{}, err
	}
	var (
		rec  common.ResistanceRecord
		rid  int64
		date sqlTime
	)
	err = s.db.QueryRowContext(ctx,
		"SELECT id,name,date,weight,sets,reps FROM resistance WHERE id = ? AND user_id = ?", n, userID).
		Scan(&rid, &rec.Name, &date, &rec.Weight, &rec.Sets, &rec.Reps)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ResistanceRecord{}, ErrNotFound
	}
	if err != nil {
		return common.ResistanceRecord{}, fmt.Errorf("select resistance: %w", err)
	}
	rec.Id = strconv.FormatInt(rid, 10)
	rec.Date = formatDate(date.Time)
	return rec, nil
}

func (s *Store) UpdateResistance(ctx context.Context, userID int, id string, u common.ResistanceUpdate) (common.ResistanceRecord, error) {
	if _, err := s.Resistance(ctx, userID, id); err != nil {
		return common.ResistanceRecord{}, err
	}
	n, _ := parseID(id)
	_, err := s.db.ExecContext(ctx,
		"UPDATE resistance SET name = ?, weight = ?, sets = ?, reps = ? WHERE id = ? AND user_id = ?",
		u.Name, u.Weight, u.Sets, u.Reps, n, userID)
	if err != nil {
		return common.ResistanceRecord{}, fmt.Errorf("update resistance: %w", err)
	}
	return s.Resistance(ctx, userID, id)
}

func (s *Store) DeleteResistance(ctx context.Context, userID int, id string) error {
	return s.deleteRow(ctx, "DELETE FROM resistance WHERE id = ? AND user_id = ?", userID, id)
}

func (s *Store) deleteRow(ctx context.Context, query string, userID int, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, query, n, userID)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// History lists all of a user's exercises, newest first.
func (s *Store) History(ctx context.Context, userID int) ([]common.ExerciseSummary, error) {
	var out []common.ExerciseSummary
	for _, kind := range []common.Kind{common.Cardio, common.Resistance} {
		rows, err := s.db.QueryContext(ctx, "SELECT id,name,date FROM "+string(kind)+" WHERE user_id = ?", userID)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", kind, err)
		}
		for rows.Next() {
			var (
				id   int64
				sum  = common.ExerciseSummary{Kind: kind}
				date sqlTime
			)
			if err := rows.Scan(&id, &sum.Name, &date); err != nil {
				rows.Close()
				return nil, fmt.Errorf("history %s: %w", kind, err)
			}
			sum.Id = strconv.FormatInt(id, 10)
			sum.Date = date.Time
			out = append(out, sum)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", kind, err)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}
