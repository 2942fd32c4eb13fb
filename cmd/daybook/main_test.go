package main

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/storage"
)

type trackingStore struct {
	storage.Provider
	loadErr error
	closed  int
}

func (s *trackingStore) Load(context.Context) error { return s.loadErr }

func (s *trackingStore) Close() error {
	s.closed++
	return nil
}

func TestLoadStore(t *testing.T) {
	tests := []struct {
		name       string
		loadErr    error
		wantClosed int
	}{
		{name: "success keeps store open", wantClosed: 0},
		{name: "failure closes store", loadErr: errors.New("schema too new"), wantClosed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &trackingStore{loadErr: tt.loadErr}
			err := loadStore(context.Background(), store, logger.Discard())
			if !errors.Is(err, tt.loadErr) {
				t.Errorf("loadStore() error = %v, want %v", err, tt.loadErr)
			}
			if store.closed != tt.wantClosed {
				t.Errorf("Close called %d times, want %d", store.closed, tt.wantClosed)
			}
		})
	}
}
