package cookie

import (
	"context"

	"prolist/pkg/list"
	"prolist/pkg/logger"
)

// Store implements list.Storage on top of a Jar.
type Store struct {
	jar Jar
	log *logger.Logger
}

// NewStore binds the storage port to a jar.
func NewStore(jar Jar, log *logger.Logger) *Store {
	return &Store{jar: jar, log: log}
}

// Load reads and decodes the list-state cookie. A missing or malformed
// cookie reports false; decode problems are logged, never returned.
func (s *Store) Load() (*list.StoredData, bool) {
	raw, ok := s.jar.Get(DataCookieName)
	if !ok {
		return nil, false
	}
	data, err := Decode(raw)
	if err != nil {
		s.log.Warn(context.Background(), "loading list state", "error", err)
		return nil, false
	}
	return data, true
}

// Save encodes the envelope and overwrites the cookie wholesale.
func (s *Store) Save(data list.StoredData) error {
	value, err := Encode(data)
	if err != nil {
		return err
	}
	s.jar.Set(DataCookieName, value)
	return nil
}
