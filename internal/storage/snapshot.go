package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"quickbite/internal/domain"
	"quickbite/internal/service"
)

// DefaultSnapshotKey is the single key the restart-surviving state
// lives under.
const DefaultSnapshotKey = "storefront:state"

// KVSnapshotStore round-trips the {cart, cart total, user} subset as
// JSON under one key. A missing key and a corrupt payload both load as
// the empty defaults; corruption is logged, never fatal.
type KVSnapshotStore struct {
	kv  KeyValue
	key string
}

var _ service.SnapshotStore = (*KVSnapshotStore)(nil)

func NewSnapshotStore(kv KeyValue) *KVSnapshotStore {
	return &KVSnapshotStore{kv: kv, key: DefaultSnapshotKey}
}

func (s *KVSnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return domain.Snapshot{}, nil
	}
	if err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		log.Printf("snapshot: corrupt payload, starting empty: %v", err)
		return domain.Snapshot{}, nil
	}
	return snap, nil
}

func (s *KVSnapshotStore) Save(ctx context.Context, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, string(payload))
}
