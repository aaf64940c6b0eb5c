package database

import "database/sql"

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	// CreatePrediction records one classification outcome and returns its id.
	CreatePrediction(label string, confidence float32) (string, error)
	// GetRecentPredictions returns up to limit predictions, newest first.
	GetRecentPredictions(limit int) ([]*Prediction, error)
	DeletePrediction(id string) error
}
