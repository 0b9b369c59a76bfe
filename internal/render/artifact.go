package render

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/dkoosis/tmx/internal/matrix"
)

// artifactEntry is one row of the JSON results artifact.
type artifactEntry struct {
	Test    string `json:"test"`
	Backend string `json:"backend"`
	Memory  string `json:"memory"`
	Opt     string `json:"opt"`
	Status  string `json:"status"`
}

// Artifact serializes the snapshot as canonical JSON (RFC 8785), so two
// runs with identical outcomes produce byte-identical artifacts and CI
// can diff them directly.
func Artifact(entries []matrix.Entry) ([]byte, error) {
	rows := make([]artifactEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, artifactEntry{
			Test:    e.Profile.Test,
			Backend: string(e.Profile.Backend),
			Memory:  string(e.Profile.Memory),
			Opt:     string(e.Profile.Opt),
			Status:  e.Status.String(),
		})
	}
	raw, err := json.Marshal(map[string]any{"version": "1", "results": rows})
	if err != nil {
		return nil, fmt.Errorf("encoding results: %w", err)
	}
	canon, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing results: %w", err)
	}
	return canon, nil
}

// WriteArtifact writes the canonical artifact to path.
func WriteArtifact(path string, entries []matrix.Entry) error {
	data, err := Artifact(entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing results artifact: %w", err)
	}
	return nil
}
