package profile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// Load reads a YAML profile file and returns the validated set.
// An empty path returns the built-in defaults.
func Load(path string) (*Set, error) {
	if path == "" {
		return Defaults(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiles file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses YAML profiles from r
// KnownFields(true): 오타/미사용 필드는 즉시 실패
func Decode(r io.Reader) (*Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var set Set
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	if err := Validate(&set); err != nil {
		return nil, err
	}
	set.normalize()

	return &set, nil
}

// Hash returns the SHA-256 of the set's canonical JSON encoding.
// Slices keep definition order so the hash is reproducible.
func Hash(set *Set) (string, error) {
	jsonBytes, err := json.Marshal(set)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// HashProfile hashes a single profile the same way Hash hashes a set
func HashProfile(p contracts.AllocationProfile) (string, error) {
	return Hash(&Set{Profiles: []contracts.AllocationProfile{p}})
}
