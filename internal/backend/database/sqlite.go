package database

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() (*sql.DB, error) {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		confidence REAL NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, err
	}

	return s.db, nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteDatabase) CreatePrediction(label string, confidence float32) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", err
	}

	// Stored as unix nanoseconds to keep ordering and scanning unambiguous
	_, err = s.db.Exec(
		"INSERT INTO predictions (id, label, confidence, created_at) VALUES (?, ?, ?, ?)",
		id, label, confidence, time.Now().UTC().UnixNano())
	if err != nil {
		return "", err
	}

	return id, nil
}

func (s *SQLiteDatabase) GetRecentPredictions(limit int) ([]*Prediction, error) {
	rows, err := s.db.Query(
		"SELECT id, label, confidence, created_at FROM predictions ORDER BY created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var predictions []*Prediction
	for rows.Next() {
		var prediction Prediction
		var createdAtNanos int64
		if err := rows.Scan(&prediction.ID, &prediction.Label, &prediction.Confidence, &createdAtNanos); err != nil {
			return nil, err
		}
		prediction.CreatedAt = time.Unix(0, createdAtNanos).UTC()
		predictions = append(predictions, &prediction)
	}
	return predictions, rows.Err()
}

func (s *SQLiteDatabase) DeletePrediction(id string) error {
	_, err := s.db.Exec("DELETE FROM predictions WHERE id = ?", id)
	return err
}
