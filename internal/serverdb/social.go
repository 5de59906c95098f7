package serverdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marcus/clubdash/internal/models"
)

const requestSelect = `
SELECT fr.id, fr.sender_id, fr.receiver_id,
       TRIM(s.first_name || ' ' || s.last_name), s.email,
       TRIM(r.first_name || ' ' || r.last_name), r.email,
       fr.status, fr.created_at
FROM friend_requests fr
JOIN users s ON s.id = fr.sender_id
JOIN users r ON r.id = fr.receiver_id`

func scanRequest(row interface{ Scan(...any) error }) (models.FriendRequest, error) {
	var r models.FriendRequest
	var status string
	err := row.Scan(&r.ID, &r.SenderID, &r.ReceiverID,
		&r.SenderName, &r.SenderEmail, &r.ReceiverName, &r.ReceiverEmail,
		&status, &r.CreatedAt)
	r.Status = models.RequestStatus(status)
	return r, err
}

func (db *ServerDB) queryRequests(where string, args ...any) ([]models.FriendRequest, error) {
	rows, err := db.conn.Query(requestSelect+" WHERE "+where+" ORDER BY fr.created_at DESC, fr.id DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	defer rows.Close()

	out := []models.FriendRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan friend request: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetFriendRequest returns request id or ErrNotFound.
func (db *ServerDB) GetFriendRequest(id int64) (*models.FriendRequest, error) {
	r, err := scanRequest(db.conn.QueryRow(requestSelect+" WHERE fr.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get friend request: %w", err)
	}
	return &r, nil
}

// SentFriendRequests lists every request userID sent, newest first.
func (db *ServerDB) SentFriendRequests(userID int64) ([]models.FriendRequest, error) {
	return db.queryRequests("fr.sender_id = ?", userID)
}

// ReceivedFriendRequests lists every request addressed to userID, newest first.
func (db *ServerDB) ReceivedFriendRequests(userID int64) ([]models.FriendRequest, error) {
	return db.queryRequests("fr.receiver_id = ?", userID)
}

// CreateFriendRequest records a pending request from senderID to
// receiverID. Requests to oneself, to an existing friend, or while another
// request between the two is pending are refused.
func (db *ServerDB) CreateFriendRequest(senderID, receiverID int64) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfRequest
	}
	receiver, err := db.GetUserByID(receiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, ErrNotFound
	}

	friends, err := db.areFriends(senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	var pending int
	err = db.conn.QueryRow(`
		SELECT COUNT(*) FROM friend_requests
		WHERE status = 'pending'
		  AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))`,
		senderID, receiverID, receiverID, senderID,
	).Scan(&pending)
	if err != nil {
		return nil, fmt.Errorf("check pending: %w", err)
	}
	if pending > 0 {
		return nil, ErrDuplicateRequest
	}

	res, err := db.conn.Exec(
		`INSERT INTO friend_requests (sender_id, receiver_id, status, created_at) VALUES (?, ?, 'pending', ?)`,
		senderID, receiverID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert friend request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert friend request: %w", err)
	}
	return db.GetFriendRequest(id)
}

// AnswerFriendRequest accepts or rejects request id on behalf of its
// receiver. Accepting stores the friendship in both directions.
func (db *ServerDB) AnswerFriendRequest(id, receiverID int64, accept bool) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var sender, receiver int64
	var status string
	err = tx.QueryRow(`SELECT sender_id, receiver_id, status FROM friend_requests WHERE id = ?`, id).
		Scan(&sender, &receiver, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get friend request: %w", err)
	}
	if receiver != receiverID {
		return ErrForbidden
	}
	if status != string(models.RequestPending) {
		return ErrNotPending
	}

	next := models.RequestRejected
	if accept {
		next = models.RequestAccepted
	}
	if _, err := tx.Exec(`UPDATE friend_requests SET status = ? WHERE id = ?`, string(next), id); err != nil {
		return fmt.Errorf("update friend request: %w", err)
	}

	if accept {
		now := time.Now().UTC()
		for _, pair := range [][2]int64{{sender, receiver}, {receiver, sender}} {
			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO friends (user_id, friend_id, created_at) VALUES (?, ?, ?)`,
				pair[0], pair[1], now,
			); err != nil {
				return fmt.Errorf("insert friendship: %w", err)
			}
		}
	}

	return tx.Commit()
}

// CancelFriendRequest deletes a pending request on behalf of its sender.
func (db *ServerDB) CancelFriendRequest(id, senderID int64) error {
	r, err := db.GetFriendRequest(id)
	if err != nil {
		return err
	}
	if r.SenderID != senderID {
		return ErrForbidden
	}
	if r.Status != models.RequestPending {
		return ErrNotPending
	}
	return affected(db.conn.Exec(`DELETE FROM friend_requests WHERE id = ?`, id))
}

// ListFriends returns userID's friends, most recent first.
func (db *ServerDB) ListFriends(userID int64) ([]models.Friend, error) {
	rows, err := db.conn.Query(`
		SELECT f.id, f.user_id, f.friend_id, u.first_name, u.last_name, u.email, f.created_at
		FROM friends f JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC, f.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	out := []models.Friend{}
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.UserID, &f.FriendID, &f.FirstName, &f.LastName, &f.Email, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// RemoveFriend ends the friendship between userID and friendID in both
// directions.
func (db *ServerDB) RemoveFriend(userID, friendID int64) error {
	return affected(db.conn.Exec(
		`DELETE FROM friends WHERE (user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)`,
		userID, friendID, friendID, userID,
	))
}

func (db *ServerDB) areFriends(a, b int64) (bool, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM friends WHERE user_id = ? AND friend_id = ?`, a, b).Scan(&n); err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return n > 0, nil
}
