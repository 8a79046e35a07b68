package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MonitoredSource maps a watched document to its dedicated log destination.
type MonitoredSource struct {
	DocumentID     string `yaml:"document_id"`
	LogDestination string `yaml:"log_destination"`
}

type sourcesFile struct {
	Sources []MonitoredSource `yaml:"sources"`
}

// LoadSources reads the monitored sources list from a YAML file:
//
//	sources:
//	  - document_id: 1BanMsUh4wqk
//	    log_destination: Finance Logs
func LoadSources(path string) ([]MonitoredSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	return ParseSources(raw)
}

// ParseSources decodes and validates a sources document.
func ParseSources(raw []byte) ([]MonitoredSource, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Sources))
	for i, src := range file.Sources {
		if src.DocumentID == "" {
			return nil, fmt.Errorf("source %d has no document_id", i)
		}
		if src.LogDestination == "" {
			return nil, fmt.Errorf("source %s has no log_destination", src.DocumentID)
		}
		if _, dup := seen[src.DocumentID]; dup {
			return nil, fmt.Errorf("document %s is listed more than once", src.DocumentID)
		}
		seen[src.DocumentID] = struct{}{}
	}
	return file.Sources, nil
}
