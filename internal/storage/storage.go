package storage

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

type Storage struct {
	db *sql.DB
}

func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	s := &Storage{db: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize database schema: %w", err)
	}
	log.Println("Database connection successful and schema initialized.")
	return s, nil
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS editors (
			user_id INTEGER PRIMARY KEY,
			is_editor BOOLEAN NOT NULL DEFAULT FALSE
		);`,

		`CREATE TABLE IF NOT EXISTS published_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			link TEXT,
			published_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) SetEditor(userID int64, isEditor bool) error {
	query := `INSERT INTO editors (user_id, is_editor) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET is_editor = excluded.is_editor;`
	_, err := s.db.Exec(query, userID, isEditor)
	return err
}

func (s *Storage) IsEditor(userID int64) (bool, error) {
	var isEditor bool
	err := s.db.QueryRow(`SELECT is_editor FROM editors WHERE user_id = ?`, userID).Scan(&isEditor)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isEditor, nil
}

// RecordPublished appends to the local audit log of successful publishes.
// It is informational only; the backend remains the source of truth.
func (s *Storage) RecordPublished(chatID int64, kind, title, link string) error {
	_, err := s.db.Exec(
		`INSERT INTO published_items (chat_id, kind, title, link) VALUES (?, ?, ?, ?)`,
		chatID, kind, title, link,
	)
	return err
}

func (s *Storage) Close() {
	s.db.Close()
}
