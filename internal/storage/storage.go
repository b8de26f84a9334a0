// Package storage archives finished games in BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/dgraph-io/badger/v4"
)

const gamePrefix = "game/"

var ErrNotFound = errors.New("archived game not found")

// Archive wraps BadgerDB for finished game records
type Archive struct {
	db *badger.DB
}

// Open opens (or creates) the archive in dir
func Open(dir string) (*Archive, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens an archive that lives only as long as the process
func OpenInMemory() (*Archive, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Archive, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Archive{db: db}, nil
}

// Close closes the database
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Save stores a finished game, replacing any earlier record with the same id
func (a *Archive) Save(rec model.GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(gamePrefix+rec.ID), data)
	})
}

// Load returns the archived game with the given id
func (a *Archive) Load(id string) (*model.GameRecord, error) {
	var rec model.GameRecord

	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gamePrefix + id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns every archived game, most recently finished first
func (a *Archive) List() ([]model.GameRecord, error) {
	var records []model.GameRecord

	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec model.GameRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})

	sort.Slice(records, func(i, j int) bool {
		return records[i].EndedAt.After(records[j].EndedAt)
	})
	return records, err
}
