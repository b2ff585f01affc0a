package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.etcd.io/bbolt"
)

var bucketAssets = []byte("assets")

// assetEncMode keeps RegisteredAt at full precision so List ordering is exact.
var assetEncMode, _ = cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()

// BoltStore implements Store in a local bbolt file. Assets are keyed by serial
// and stored as CBOR records.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

// NewBoltStore opens (or creates) the inventory database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create inventory directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAssets)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Record(_ context.Context, a Asset) error {
	data, err := assetEncMode.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal asset: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAssets).Put([]byte(a.Serial), data)
	})
	if err != nil {
		return fmt.Errorf("record asset: %w", err)
	}
	return nil
}

func (s *BoltStore) Get(_ context.Context, serial string) (*Asset, error) {
	var a *Asset
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAssets).Get([]byte(serial))
		if data == nil {
			return nil
		}
		a = new(Asset)
		return cbor.Unmarshal(data, a)
	})
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *BoltStore) List(_ context.Context, runID string) ([]Asset, error) {
	var assets []Asset
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAssets).ForEach(func(k, v []byte) error {
			var a Asset
			if err := cbor.Unmarshal(v, &a); err != nil {
				return fmt.Errorf("unmarshal asset %s: %w", k, err)
			}
			if runID == "" || a.RunID == runID {
				assets = append(assets, a)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].RegisteredAt.Before(assets[j].RegisteredAt)
	})
	return assets, nil
}

func (s *BoltStore) Count(_ context.Context) (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketAssets).Stats().KeyN
		return nil
	})
	return n, err
}

func (s *BoltStore) Close(_ context.Context) error {
	return s.db.Close()
}
