package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lawnchairsociety/amphipod/internal/burrow"
)

// Solution is a stored optimal solve of one starting configuration.
type Solution struct {
	ID       int64
	BoardKey string
	Layout   string
	Cost     int
	Moves    []burrow.Move
	Expanded int
	SolvedAt time.Time
}

// BoardKey identifies a starting configuration across layouts.
func BoardKey(b *burrow.Burrow) string {
	return b.Graph().Layout().String() + "|" + string(b.Key())
}

// ParseBoardKey rebuilds the starting burrow a BoardKey was made from.
func ParseBoardKey(key string) (*burrow.Burrow, error) {
	layoutPart, occupants, ok := strings.Cut(key, "|")
	if !ok {
		return nil, fmt.Errorf("malformed board key %q", key)
	}
	layout, err := burrow.ParseLayout(layoutPart)
	if err != nil {
		return nil, err
	}
	g, err := burrow.NewGraph(layout)
	if err != nil {
		return nil, err
	}
	b, err := burrow.FromKey(g, burrow.Key(occupants))
	if err != nil {
		return nil, fmt.Errorf("board key %q: %w", key, err)
	}
	return b, nil
}

// SaveSolution stores s, replacing any earlier solution for the same board.
// SolvedAt defaults to now and s.ID is set to the row id.
func (d *Database) SaveSolution(s *Solution) error {
	if s.SolvedAt.IsZero() {
		s.SolvedAt = time.Now().UTC()
	}
	moves := EncodeMoves(s.Moves)

	query := d.qb.BuildWithReturning(`
		INSERT INTO solutions (board_key, layout, cost, moves, expanded, solved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, "id")
	args := []any{s.BoardKey, s.Layout, s.Cost, moves, s.Expanded, s.SolvedAt}

	var err error
	if d.dialect.SupportsLastInsertID() {
		var result sql.Result
		result, err = d.db.Exec(query, args...)
		if err == nil {
			s.ID, err = result.LastInsertId()
		}
	} else {
		err = d.db.QueryRow(query, args...).Scan(&s.ID)
	}
	if err == nil {
		return nil
	}
	if !d.dialect.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to save solution: %w", err)
	}

	// Board already stored; overwrite it in place.
	_, err = d.db.Exec(d.qb.Build(`
		UPDATE solutions
		SET layout = ?, cost = ?, moves = ?, expanded = ?, solved_at = ?
		WHERE board_key = ?
	`), s.Layout, s.Cost, moves, s.Expanded, s.SolvedAt, s.BoardKey)
	if err != nil {
		return fmt.Errorf("failed to update solution: %w", err)
	}

	err = d.db.QueryRow(d.qb.Build(`SELECT id FROM solutions WHERE board_key = ?`), s.BoardKey).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to read solution id: %w", err)
	}
	return nil
}

// GetSolution returns the solution stored for boardKey, or nil if there is none.
func (d *Database) GetSolution(boardKey string) (*Solution, error) {
	row := d.db.QueryRow(d.qb.Build(`
		SELECT id, board_key, layout, cost, moves, expanded, solved_at
		FROM solutions
		WHERE board_key = ?
	`), boardKey)

	s, err := scanSolution(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSolutions returns up to limit solutions, most recent first. A limit of
// zero or less returns every solution.
func (d *Database) ListSolutions(limit int) ([]Solution, error) {
	query := `
		SELECT id, board_key, layout, cost, moves, expanded, solved_at
		FROM solutions
		ORDER BY solved_at DESC, id DESC
	`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(d.qb.Build(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var solutions []Solution
	for rows.Next() {
		s, err := scanSolution(rows)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, *s)
	}
	return solutions, rows.Err()
}

// CountSolutions returns the number of stored solutions.
func (d *Database) CountSolutions() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM solutions`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteSolution removes the solution for boardKey and reports whether one existed.
func (d *Database) DeleteSolution(boardKey string) (bool, error) {
	result, err := d.db.Exec(d.qb.Build(`DELETE FROM solutions WHERE board_key = ?`), boardKey)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolution(row rowScanner) (*Solution, error) {
	s := &Solution{}
	var moves string
	err := row.Scan(&s.ID, &s.BoardKey, &s.Layout, &s.Cost, &moves, &s.Expanded, &s.SolvedAt)
	if err != nil {
		return nil, err
	}
	s.Moves, err = DecodeMoves(moves)
	if err != nil {
		return nil, fmt.Errorf("solution %d: %w", s.ID, err)
	}
	return s, nil
}
