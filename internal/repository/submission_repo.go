package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("submission not found")

type SubmissionRepo struct {
	db *sql.DB
}

func NewSubmissionRepo(db *sql.DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

// Create assigns an opaque id and last-updated timestamp, inserts the row,
// and returns the id.
func (r *SubmissionRepo) Create(sub *models.Submission) (string, error) {
	sub.ID = uuid.NewString()
	sub.LastUpdated = time.Now().UTC()

	_, err := r.db.Exec(`INSERT INTO form_submissions
    (id, username, password_hash, address, birthdate, about_you, is_complete, last_updated)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Username, sub.PasswordHash, sub.Address, sub.Birthdate,
		sub.AboutYou, sub.IsComplete, sub.LastUpdated.UnixMilli())
	if err != nil {
		return "", err
	}
	return sub.ID, nil
}

// Update replaces the mutable columns of an existing row and refreshes the
// last-updated timestamp.
func (r *SubmissionRepo) Update(sub *models.Submission) error {
	sub.LastUpdated = time.Now().UTC()

	res, err := r.db.Exec(`UPDATE form_submissions SET
    username = ?, address = ?, birthdate = ?, about_you = ?, is_complete = ?, last_updated = ?
    WHERE id = ?`,
		sub.Username, sub.Address, sub.Birthdate, sub.AboutYou,
		sub.IsComplete, sub.LastUpdated.UnixMilli(), sub.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubmissionRepo) FindByID(id string) (*models.Submission, error) {
	row := r.db.QueryRow(`SELECT id, username, password_hash, address, birthdate,
    about_you, is_complete, last_updated FROM form_submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sub, err
}

// FindAll returns every row ordered by last update, newest first.
func (r *SubmissionRepo) FindAll() ([]models.Submission, error) {
	rows, err := r.db.Query(`SELECT id, username, password_hash, address, birthdate,
    about_you, is_complete, last_updated FROM form_submissions ORDER BY last_updated DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var sub models.Submission
	var birthdate sql.NullString
	var updatedMilli int64

	err := row.Scan(&sub.ID, &sub.Username, &sub.PasswordHash, &sub.Address,
		&birthdate, &sub.AboutYou, &sub.IsComplete, &updatedMilli)
	if err != nil {
		return nil, err
	}
	if birthdate.Valid {
		sub.Birthdate = &birthdate.String
	}
	sub.LastUpdated = time.UnixMilli(updatedMilli).UTC()
	return &sub, nil
}
