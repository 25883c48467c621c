package scheme

import (
	"fmt"
	"os"
)

// ReadFile reads and validates a JSON scheme file.
func ReadFile(path string) (*Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load reads the scheme at path, or returns the default scheme when path is
// empty.
func Load(path string) (*Scheme, error) {
	if path == "" {
		return Default(), nil
	}
	return ReadFile(path)
}

// WriteFile writes s to path as JSON.
func WriteFile(path string, s *Scheme, pretty bool) error {
	data, err := ToJSON(s, pretty)
	if err != nil {
		return err
	}
	if pretty {
		data = append(data, '\n')
	}
	return os.WriteFile(path, data, 0644)
}
