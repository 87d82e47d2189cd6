package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"quickbite/internal/domain"
	"quickbite/internal/service"
)

const reviewKeyPrefix = "reviews:"

// KVReviewStore keeps user-submitted reviews per restaurant, newest
// first. It is additive-only: nothing is ever updated or removed, and
// no deduplication against a restaurant's built-in reviews happens.
type KVReviewStore struct {
	kv KeyValue
}

var _ service.ReviewStore = (*KVReviewStore)(nil)

func NewReviewStore(kv KeyValue) *KVReviewStore {
	return &KVReviewStore{kv: kv}
}

func (s *KVReviewStore) Append(ctx context.Context, restaurantID string, review domain.Review) error {
	existing, err := s.List(ctx, restaurantID)
	if err != nil {
		return err
	}

	reviews := append([]domain.Review{review}, existing...)
	payload, err := json.Marshal(reviews)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, reviewKeyPrefix+restaurantID, string(payload))
}

func (s *KVReviewStore) List(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	raw, err := s.kv.Get(ctx, reviewKeyPrefix+restaurantID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var reviews []domain.Review
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		log.Printf("reviews: corrupt payload for restaurant %s, starting empty: %v", restaurantID, err)
		return nil, nil
	}
	return reviews, nil
}
