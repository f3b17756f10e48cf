package queue

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// stateRow is the single-row embedded key-value representation of the queue
// used by SQLiteStore. The whole state is one JSON blob so the replace is
// transactional and the persisted shape matches the file backend exactly.
type stateRow struct {
	ID        uint      `gorm:"primaryKey"`
	Payload   []byte    `gorm:"type:blob;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName implements the GORM tabler interface.
func (stateRow) TableName() string { return "purchase_queue" }

// SQLiteStore persists the queue state inside an embedded SQLite database.
// SQLite's transactional write is the atomic boundary here, mirroring the
// temp-file-and-rename discipline of FileStore.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore migrates the backing table and returns a store bound to db.
func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&stateRow{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns the persisted state, initializing an empty one on first use.
func (s *SQLiteStore) Load() (*State, error) {
	var row stateRow
	err := s.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		st := newState(time.Now().UTC())
		if err := s.Save(st); err != nil {
			return nil, err
		}
		return st, nil
	}
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(row.Payload, &st); err != nil {
		return nil, err
	}
	if st.PendingRequests == nil {
		st.PendingRequests = []PurchaseRequest{}
	}
	if st.CompletedRequests == nil {
		st.CompletedRequests = []PurchaseRequest{}
	}
	return &st, nil
}

// Save replaces the stored state in a single transaction.
func (s *SQLiteStore) Save(st *State) error {
	st.Metadata.LastUpdated = time.Now().UTC()
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(&stateRow{ID: 1, Payload: payload}).Error
	})
}
