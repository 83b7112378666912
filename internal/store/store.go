package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db      *sql.DB
	records *RecordStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		records: NewRecordStore(newQueryInterceptor(db)),
	}
}

func (s *Store) Records() *RecordStore {
	return s.records
}

func (s *Store) Close() error {
	return s.db.Close()
}
