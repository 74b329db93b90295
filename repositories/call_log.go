package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"retrobell/domain"
)

type ICallLogRepository interface {
	StoreCall(record domain.CallRecord) error
	GetCalls() ([]domain.CallRecord, error)
}

// CallLogRepository persists closed calls in BadgerDB.
// The key is "call:{end_timestamp_padded}:{uuid}":
//  1. The 19-digit zero padding keeps keys in chronological order under
//     Badger's lexicographical iteration.
//  2. The UUID disambiguates two calls closing in the same nanosecond.
type CallLogRepository struct {
	db         *badger.DB
	log        *slog.Logger
	limitCalls *int
}

func NewCallLogRepository(db *badger.DB, log *slog.Logger, limitCalls *int) CallLogRepository {
	return CallLogRepository{db: db, log: log, limitCalls: limitCalls}
}

func (r CallLogRepository) StoreCall(record domain.CallRecord) error {
	key := fmt.Sprintf("call:%019d:%s", record.EndedAt.UnixNano(), record.ID)
	value, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// GetCalls returns the call history newest-first, honoring the configured
// limit when one is set.
func (r CallLogRepository) GetCalls() ([]domain.CallRecord, error) {
	var records []domain.CallRecord
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("call:")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible key, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if r.limitCalls != nil && len(records) == *r.limitCalls {
				r.log.Debug(fmt.Sprintf("Maximum of %d call records reached", *r.limitCalls))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var record domain.CallRecord
				if err := json.Unmarshal(value, &record); err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
