package database

import "time"

type Prediction struct {
	ID         string    `db:"id" json:"id"`
	Label      string    `db:"label" json:"label"`
	Confidence float32   `db:"confidence" json:"confidence"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
