package config

import (
	"encoding/json"
	"fmt"
	"io"
)

// Document returns cfg as a generic JSON object keyed like the config files.
// Durations are rendered as strings such as "10s".
func Document(cfg *Configuration) (map[string]interface{}, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	doc := map[string]interface{}{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	SetNestedValue(doc, []string{"server", "ready_timeout"}, cfg.Server.ReadyTimeout.String())
	return doc, nil
}

// Show writes the effective configuration as indented JSON, followed by the
// list of files it was loaded from.
func Show(w io.Writer, cfg *Configuration) error {
	doc, err := Document(cfg)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		return err
	}
	if len(cfg.Sources) == 0 {
		_, err = fmt.Fprintln(w, "\nSources: defaults only")
		return err
	}
	if _, err := fmt.Fprintln(w, "\nSources (lowest priority first):"); err != nil {
		return err
	}
	for _, src := range cfg.Sources {
		if _, err := fmt.Fprintf(w, "  %s\n", src); err != nil {
			return err
		}
	}
	return nil
}
