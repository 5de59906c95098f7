package serverdb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcus/clubdash/internal/models"
)

// Column is a column name with the value to store in it.
type Column struct {
	Name  string
	Value any
}

// Table is a plain CRUD table whose rows are E and whose writable columns
// come from a payload P.
type Table[E any, P any] struct {
	db      *ServerDB
	name    string
	columns string // select list, id first
	scan    func(row interface{ Scan(...any) error }) (E, error)
	values  func(P) []Column
}

// List returns every row, ordered by id.
func (t *Table[E, P]) List() ([]E, error) {
	rows, err := t.db.conn.Query(fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, t.columns, t.name))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	out := []E{}
	for rows.Next() {
		e, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns row id or ErrNotFound.
func (t *Table[E, P]) Get(id int64) (*E, error) {
	e, err := t.scan(t.db.conn.QueryRow(fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, t.columns, t.name), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", t.name, err)
	}
	return &e, nil
}

// Insert stores p plus any extra columns and returns the new row.
func (t *Table[E, P]) Insert(p P, extra ...Column) (*E, error) {
	cols := append(t.values(p), extra...)
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i], marks[i], args[i] = c.Name, "?", c.Value
	}

	res, err := t.db.conn.Exec(fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		t.name, strings.Join(names, ", "), strings.Join(marks, ", ")), args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.name, err)
	}
	return t.Get(id)
}

// Update overwrites the payload columns of row id.
func (t *Table[E, P]) Update(id int64, p P) (*E, error) {
	cols := t.values(p)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = c.Name + " = ?"
		args = append(args, c.Value)
	}
	args = append(args, id)

	err := affected(t.db.conn.Exec(fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`,
		t.name, strings.Join(sets, ", ")), args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update %s: %w", t.name, err)
	}
	return t.Get(id)
}

// Delete removes row id.
func (t *Table[E, P]) Delete(id int64) error {
	err := affected(t.db.conn.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, t.name), id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return err
}

// Games is the games table.
func (db *ServerDB) Games() *Table[models.Game, models.GamePayload] {
	return &Table[models.Game, models.GamePayload]{
		db:      db,
		name:    "games",
		columns: "id, name, genre, description",
		scan: func(row interface{ Scan(...any) error }) (models.Game, error) {
			var g models.Game
			err := row.Scan(&g.ID, &g.Name, &g.Genre, &g.Description)
			return g, err
		},
		values: func(p models.GamePayload) []Column {
			return []Column{{"name", p.Name}, {"genre", p.Genre}, {"description", p.Description}}
		},
	}
}

// Teams is the teams table.
func (db *ServerDB) Teams() *Table[models.Team, models.TeamPayload] {
	return &Table[models.Team, models.TeamPayload]{
		db:      db,
		name:    "teams",
		columns: "id, name, game_id, description",
		scan: func(row interface{ Scan(...any) error }) (models.Team, error) {
			var t models.Team
			err := row.Scan(&t.ID, &t.Name, &t.GameID, &t.Description)
			return t, err
		},
		values: func(p models.TeamPayload) []Column {
			return []Column{{"name", p.Name}, {"game_id", p.GameID}, {"description", p.Description}}
		},
	}
}

// Tournaments is the tournaments table.
func (db *ServerDB) Tournaments() *Table[models.Tournament, models.TournamentPayload] {
	return &Table[models.Tournament, models.TournamentPayload]{
		db:      db,
		name:    "tournaments",
		columns: "id, name, game_id, location, start_date, end_date, prize_pool",
		scan: func(row interface{ Scan(...any) error }) (models.Tournament, error) {
			var t models.Tournament
			err := row.Scan(&t.ID, &t.Name, &t.GameID, &t.Location, &t.StartDate, &t.EndDate, &t.PrizePool)
			return t, err
		},
		values: func(p models.TournamentPayload) []Column {
			return []Column{
				{"name", p.Name},
				{"game_id", p.GameID},
				{"location", p.Location},
				{"start_date", p.StartDate},
				{"end_date", p.EndDate},
				{"prize_pool", p.PrizePool},
			}
		},
	}
}

// News is the news table. Author columns are set once, at insert.
func (db *ServerDB) News() *Table[models.News, models.NewsPayload] {
	return &Table[models.News, models.NewsPayload]{
		db:      db,
		name:    "news",
		columns: "id, title, content, author_id, author_name, created_at",
		scan: func(row interface{ Scan(...any) error }) (models.News, error) {
			var n models.News
			err := row.Scan(&n.ID, &n.Title, &n.Content, &n.AuthorID, &n.AuthorName, &n.CreatedAt)
			return n, err
		},
		values: func(p models.NewsPayload) []Column {
			return []Column{{"title", p.Title}, {"content", p.Content}}
		},
	}
}

// AuthorColumns are the extra insert columns for content written by u.
func AuthorColumns(u *User) []Column {
	return []Column{
		{"author_id", u.ID},
		{"author_name", u.FullName()},
		{"created_at", time.Now().UTC()},
	}
}
