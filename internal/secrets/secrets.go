// Package secrets reads KEY=value credential files.
package secrets

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
)

const GeocodeAPIKeyName = "GEOCODE_API_KEY"

var ErrKeyNotFound = errors.New("secret not found")

// Load parses a KEY=value file. Lines starting with # are comments.
func Load(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}
	return values, nil
}

// Lookup returns the value of key in the secrets file at path. The value is
// taken from the key's own line, never from another line of the file.
func Lookup(path, key string) (string, error) {
	values, err := Load(path)
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s in %s", ErrKeyNotFound, key, path)
	}
	return v, nil
}

func GeocodeAPIKey(path string) (string, error) {
	return Lookup(path, GeocodeAPIKeyName)
}
