package persistence

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Well-known state store keys
const (
	KeyCart         = "cart"
	KeyUserCurrency = "userCurrency"
)

// StateRecord is a persisted key/value entry. Values are JSON documents
// owned by the application layer.
type StateRecord struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     []byte
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName sets the table name for StateRecord
func (StateRecord) TableName() string {
	return "local_state"
}

// StateStore persists small JSON state documents, such as the cart
// contents and the user's currency preference, keyed by name.
type StateStore struct {
	db *gorm.DB
}

// NewStateStore creates a state store backed by the given database
func NewStateStore(db *Database) *StateStore {
	return &StateStore{db: db.DB}
}

// Get returns the stored value for key. The second return is false when
// no value has been stored under the key.
func (s *StateStore) Get(key string) ([]byte, bool, error) {
	var record StateRecord
	err := s.db.First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load state %q: %w", key, err)
	}
	return record.Value, true, nil
}

// Set stores value under key, replacing any previous value
func (s *StateStore) Set(key string, value []byte) error {
	record := StateRecord{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to store state %q: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is
// not an error.
func (s *StateStore) Delete(key string) error {
	if err := s.db.Delete(&StateRecord{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete state %q: %w", key, err)
	}
	return nil
}
