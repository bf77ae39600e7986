package querycache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var boltBucket = []byte("queries")

// BoltStore keeps answers in a bbolt file. Writes are buffered and flushed in
// batches; Close flushes what is left.
type BoltStore struct {
	db *bbolt.DB

	pendingMutex   sync.Mutex
	pending        map[string][]byte
	flushThreshold int
}

func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", path)
	}

	// create the bucket if it doesn't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}

	return &BoltStore{
		db:             db,
		pending:        make(map[string][]byte),
		flushThreshold: 25,
	}, nil
}

func (s *BoltStore) Get(_ context.Context, key string) (Answer, error) {
	var a Answer

	s.pendingMutex.Lock()
	data, ok := s.pending[key]
	s.pendingMutex.Unlock()
	if ok {
		return a, errors.WithStack(json.Unmarshal(data, &a))
	}

	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(boltBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &a)
	})
	if err != nil {
		return a, errors.Wrap(err, "could not get answer")
	}
	if !found {
		return a, ErrNotFound
	}
	return a, nil
}

func (s *BoltStore) Put(_ context.Context, key string, a Answer) error {
	data, err := json.Marshal(a)
	if err != nil {
		return errors.WithStack(err)
	}

	s.pendingMutex.Lock()
	defer s.pendingMutex.Unlock()
	s.pending[key] = data
	if len(s.pending) >= s.flushThreshold {
		return s.flush()
	}
	return nil
}

// flush must be called with pendingMutex held.
func (s *BoltStore) flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		for k, v := range s.pending {
			if err := bucket.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}
	clear(s.pending)
	return nil
}

func (s *BoltStore) Close() error {
	s.pendingMutex.Lock()
	err := s.flush()
	s.pendingMutex.Unlock()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}
