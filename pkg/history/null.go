package history

import "context"

// NullStore discards records, for when history is disabled.
type NullStore struct{}

// NewNullStore creates a store that keeps nothing.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Append does nothing.
func (s *NullStore) Append(ctx context.Context, rec *Record) error {
	return nil
}

// List always returns an empty history.
func (s *NullStore) List(ctx context.Context, limit int) ([]*Record, error) {
	return nil, nil
}

// Close does nothing.
func (s *NullStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*NullStore)(nil)
