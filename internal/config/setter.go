package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// ErrEmptyKeyPath is returned when an empty key path is provided.
var ErrEmptyKeyPath = errors.New("empty key path")

const setLockTimeout = 5 * time.Second

// ParseKeyPath splits a dotted key path into its component parts.
// For example, "events.enabled" becomes ["events", "enabled"].
func ParseKeyPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyKeyPath
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("malformed key path %q", path)
		}
	}
	return parts, nil
}

// SetNestedValue sets value at keyPath inside doc, creating intermediate
// objects. A non-object found on the way is replaced.
func SetNestedValue(doc map[string]interface{}, keyPath []string, value interface{}) {
	node := doc
	for _, key := range keyPath[:len(keyPath)-1] {
		child, ok := node[key].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			node[key] = child
		}
		node = child
	}
	node[keyPath[len(keyPath)-1]] = value
}

// GetNestedValue returns the value at keyPath, if present.
func GetNestedValue(doc map[string]interface{}, keyPath []string) (interface{}, bool) {
	var cur interface{} = doc
	for _, key := range keyPath {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// SetConfigValue validates value for key and writes it into the JSON config
// file at filePath, creating the file if needed. Concurrent writers are
// serialised with a lock file next to it.
func SetConfigValue(filePath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return fmt.Errorf("validating value: %w", err)
	}
	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return fmt.Errorf("parsing key path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(filePath), err)
	}
	lock := flock.New(filePath + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), setLockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("locking %s: %w", filePath, err)
	}
	if !locked {
		return fmt.Errorf("locking %s: timed out", filePath)
	}
	defer lock.Unlock()

	doc, err := ReadConfigFile(filePath)
	if err != nil {
		return err
	}
	SetNestedValue(doc, keyPath, parsed.Parsed)

	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := writeAtomically(filePath, append(content, '\n')); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ReadConfigFile decodes a JSON config file. A missing file is an empty document.
func ReadConfigFile(filePath string) (map[string]interface{}, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	doc := map[string]interface{}{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	return doc, nil
}

// writeAtomically writes content to a temporary file in the same directory
// and renames it over path.
func writeAtomically(path string, content []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	tmpPath = ""
	return nil
}
