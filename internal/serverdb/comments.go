package serverdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marcus/clubdash/internal/models"
)

const commentSelect = `
SELECT c.id, c.news_id, c.user_id, TRIM(u.first_name || ' ' || u.last_name), c.content, c.created_at
FROM comments c JOIN users u ON u.id = c.user_id`

func scanComment(row interface{ Scan(...any) error }) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.NewsID, &c.UserID, &c.AuthorName, &c.Content, &c.CreatedAt)
	return c, err
}

// ListComments returns the comments on newsID, oldest first.
func (db *ServerDB) ListComments(newsID int64) ([]models.Comment, error) {
	if _, err := db.News().Get(newsID); err != nil {
		return nil, err
	}
	rows, err := db.conn.Query(commentSelect+` WHERE c.news_id = ? ORDER BY c.created_at, c.id`, newsID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetComment returns comment id or ErrNotFound.
func (db *ServerDB) GetComment(id int64) (*models.Comment, error) {
	c, err := scanComment(db.conn.QueryRow(commentSelect+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

// CreateComment stores a comment by userID on newsID.
func (db *ServerDB) CreateComment(newsID, userID int64, content string) (*models.Comment, error) {
	if _, err := db.News().Get(newsID); err != nil {
		return nil, err
	}
	res, err := db.conn.Exec(
		`INSERT INTO comments (news_id, user_id, content, created_at) VALUES (?, ?, ?, ?)`,
		newsID, userID, content, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return db.GetComment(id)
}

// UpdateComment replaces the content of comment id. Only its author may.
func (db *ServerDB) UpdateComment(id, userID int64, content string) (*models.Comment, error) {
	c, err := db.GetComment(id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}
	if err := affected(db.conn.Exec(`UPDATE comments SET content = ? WHERE id = ?`, content, id)); err != nil {
		return nil, err
	}
	return db.GetComment(id)
}

// DeleteComment removes comment id. Only its author may.
func (db *ServerDB) DeleteComment(id, userID int64) error {
	c, err := db.GetComment(id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrForbidden
	}
	return affected(db.conn.Exec(`DELETE FROM comments WHERE id = ?`, id))
}
