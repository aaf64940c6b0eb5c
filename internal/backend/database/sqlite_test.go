package database

import (
	"testing"
	"time"
)

func newTestDB(t *testing.T) DatabaseService {
	t.Helper()

	ds, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDatabase error: %v", err)
	}
	_, err = ds.CreateDatabase()
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func TestSQLite_DoesDatabaseExist(t *testing.T) {
	ds := newTestDB(t)
	if !ds.DoesDatabaseExist() {
		t.Fatalf("expected DoesDatabaseExist to return true")
	}
}

func TestSQLite_CreateAndGetPredictions(t *testing.T) {
	ds := newTestDB(t)

	id1, err := ds.CreatePrediction("c0: normal driving", 0.95)
	if err != nil {
		t.Fatalf("CreatePrediction #1 error: %v", err)
	}
	id2, err := ds.CreatePrediction("c6: drinking", 0.71)
	if err != nil {
		t.Fatalf("CreatePrediction #2 error: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected distinct prediction IDs, both were %q", id1)
	}

	predictions, err := ds.GetRecentPredictions(10)
	if err != nil {
		t.Fatalf("GetRecentPredictions error: %v", err)
	}
	if len(predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(predictions))
	}

	seen := map[string]bool{}
	for i, prediction := range predictions {
		if prediction.ID == "" {
			t.Errorf("prediction[%d].ID is empty; expected non-empty", i)
		}
		if prediction.Label == "" {
			t.Errorf("prediction[%d].Label is empty; expected non-empty", i)
		}
		if prediction.CreatedAt.IsZero() {
			t.Errorf("prediction[%d].CreatedAt is zero; expected a timestamp", i)
		}
		seen[prediction.ID] = true
	}
	if !seen[id1] || !seen[id2] {
		t.Fatalf("expected IDs %q and %q to be present in results, got %v", id1, id2, seen)
	}
}

func TestSQLite_GetRecentPredictions_Order(t *testing.T) {
	ds := newTestDB(t)

	if _, err := ds.CreatePrediction("older", 0.5); err != nil {
		t.Fatalf("CreatePrediction error: %v", err)
	}
	// ordering is by insertion timestamp; keep the two rows apart
	time.Sleep(2 * time.Millisecond)
	if _, err := ds.CreatePrediction("newer", 0.5); err != nil {
		t.Fatalf("CreatePrediction error: %v", err)
	}

	predictions, err := ds.GetRecentPredictions(10)
	if err != nil {
		t.Fatalf("GetRecentPredictions error: %v", err)
	}
	if len(predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(predictions))
	}
	if predictions[0].Label != "newer" {
		t.Errorf("expected newest prediction first, got %q", predictions[0].Label)
	}
}

func TestSQLite_GetRecentPredictions_Limit(t *testing.T) {
	ds := newTestDB(t)

	for i := 0; i < 5; i++ {
		if _, err := ds.CreatePrediction("label", 0.5); err != nil {
			t.Fatalf("CreatePrediction error: %v", err)
		}
	}

	predictions, err := ds.GetRecentPredictions(3)
	if err != nil {
		t.Fatalf("GetRecentPredictions error: %v", err)
	}
	if len(predictions) != 3 {
		t.Fatalf("expected limit of 3 predictions, got %d", len(predictions))
	}
}

func TestSQLite_DeletePrediction(t *testing.T) {
	ds := newTestDB(t)

	id, err := ds.CreatePrediction("c1: texting - right", 0.88)
	if err != nil {
		t.Fatalf("CreatePrediction error: %v", err)
	}

	if err := ds.DeletePrediction(id); err != nil {
		t.Fatalf("DeletePrediction error: %v", err)
	}

	predictions, err := ds.GetRecentPredictions(10)
	if err != nil {
		t.Fatalf("GetRecentPredictions error: %v", err)
	}
	if len(predictions) != 0 {
		t.Fatalf("expected 0 predictions after delete, got %d", len(predictions))
	}
}

func TestNewDatabase_UnsupportedType(t *testing.T) {
	if _, err := NewDatabase("postgres", ""); err == nil {
		t.Fatal("expected error for unsupported database type, got nil")
	}
}
