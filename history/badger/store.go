package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/finsight/core"
	"github.com/poiesic/finsight/history"
)

// Store implements history.Store for BadgerDB.
type Store struct {
	backend     *Backend
	ingestIDSeq *badger.Sequence
	queryIDSeq  *badger.Sequence
}

var _ history.Store = (*Store)(nil)

// NewStore creates a history store over an open backend.
func NewStore(backend *Backend) (*Store, error) {
	ingestSeq, err := backend.GetSequence(ingestIDSeq)
	if err != nil {
		return nil, err
	}
	querySeq, err := backend.GetSequence(queryIDSeq)
	if err != nil {
		ingestSeq.Release()
		return nil, err
	}

	return &Store{
		backend:     backend,
		ingestIDSeq: ingestSeq,
		queryIDSeq:  querySeq,
	}, nil
}

// Close releases the ID sequences.
func (s *Store) Close() error {
	err := s.ingestIDSeq.Release()
	if qerr := s.queryIDSeq.Release(); err == nil {
		err = qerr
	}
	return err
}

// AddIngest records one completed ingestion.
func (s *Store) AddIngest(ctx context.Context, record *history.IngestRecord) error {
	if record == nil {
		return history.ErrNilRecord
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		id, err := s.nextID(s.ingestIDSeq)
		if err != nil {
			return err
		}
		record.ID = id
		record.IngestedAt = time.Now().UTC()

		key := makeRecordKey(ingestRecordPrefix, record.ID)
		if err := tx.Set(key, history.MarshalIngestRecord(record)); err != nil {
			return err
		}
		dateKey := makeDateKey(ingestDatePrefix, record.IngestedAt, record.ID)
		if err := tx.Set(dateKey, history.MarshalID(record.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// AddQuery records one answered question.
func (s *Store) AddQuery(ctx context.Context, record *history.QueryRecord) error {
	if record == nil {
		return history.ErrNilRecord
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		id, err := s.nextID(s.queryIDSeq)
		if err != nil {
			return err
		}
		record.ID = id
		record.AskedAt = time.Now().UTC()

		key := makeRecordKey(queryRecordPrefix, record.ID)
		if err := tx.Set(key, history.MarshalQueryRecord(record)); err != nil {
			return err
		}
		dateKey := makeDateKey(queryDatePrefix, record.AskedAt, record.ID)
		if err := tx.Set(dateKey, history.MarshalID(record.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// RecentIngests returns up to limit ingestion records, most recent first.
func (s *Store) RecentIngests(ctx context.Context, limit int) ([]*history.IngestRecord, error) {
	ids, err := s.recentIDs(ingestDatePrefix, limit)
	if err != nil {
		return nil, err
	}

	var results []*history.IngestRecord
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := tx.Get(makeRecordKey(ingestRecordPrefix, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			var record *history.IngestRecord
			if err := item.Value(func(val []byte) error {
				record, err = history.UnmarshalIngestRecord(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)
	return results, err
}

// RecentQueries returns up to limit query records, most recent first.
func (s *Store) RecentQueries(ctx context.Context, limit int) ([]*history.QueryRecord, error) {
	ids, err := s.recentIDs(queryDatePrefix, limit)
	if err != nil {
		return nil, err
	}

	var results []*history.QueryRecord
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := tx.Get(makeRecordKey(queryRecordPrefix, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			var record *history.QueryRecord
			if err := item.Value(func(val []byte) error {
				record, err = history.UnmarshalQueryRecord(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)
	return results, err
}

// nextID draws the next ID from a sequence.
// BadgerDB sequences can return 0 on first call, so we skip it.
func (s *Store) nextID(seq *badger.Sequence) (core.ID, error) {
	next, err := seq.Next()
	if err != nil {
		return 0, err
	}
	if next == 0 {
		next, err = seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(next), nil
}

// recentIDs walks a date index in reverse and collects up to limit
// record IDs, newest first.
func (s *Store) recentIDs(datePrefix string, limit int) ([]core.ID, error) {
	if limit <= 0 {
		return nil, nil
	}

	var ids []core.ID
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key within the date index.
		startKey := makePartialDateKey(datePrefix, time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(datePrefix + ":")

		for iter.Seek(startKey); iter.Valid() && len(ids) < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = history.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	}, false)
	return ids, err
}
