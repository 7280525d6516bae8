package config

import (
	"errors"
	"sync"
)

var (
	ErrAlreadyInitialized = errors.New("config already initialized")
	ErrNotInitialized     = errors.New("config is not initialized")
	ErrNilConfig          = errors.New("config cannot be nil")
)

// Store holds the process configuration. It is initialized exactly once;
// later Initialize calls fail and leave the first value in place.
type Store struct {
	mu  sync.RWMutex
	cfg *Config
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Initialize(cfg *Config) error {
	if cfg == nil {
		return ErrNilConfig
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg != nil {
		return ErrAlreadyInitialized
	}
	s.cfg = cfg
	return nil
}

func (s *Store) Get() (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg == nil {
		return nil, ErrNotInitialized
	}
	return s.cfg, nil
}
