// Package ingest carries a file-backed stand-in for the ingestion
// collaborator, used by the CLI and by local runs. Real deployments plug
// their own LineSource in; the core never normalizes raw inputs itself.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/cost-audit/pkg/adapters"
	"github.com/de-tools/cost-audit/pkg/models/api"
	"github.com/de-tools/cost-audit/pkg/models/domain"
)

// FileSource reads a JSON array of cost lines from a file. The ref passed
// to Lines is the file path.
type FileSource struct{}

func NewFileSource() *FileSource {
	return &FileSource{}
}

func (f *FileSource) Lines(_ context.Context, snapshotID, ref string) ([]domain.CostLine, error) {
	raw, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("read lines file %q: %w", ref, err)
	}

	var wire []api.CostLine
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("parse lines file %q: %w", ref, err)
	}

	lines := make([]domain.CostLine, 0, len(wire))
	for _, w := range wire {
		if w.DatasetSnapshotID == "" {
			w.DatasetSnapshotID = snapshotID
		}
		lines = append(lines, adapters.MapApiCostLineToDomain(w))
	}
	return lines, nil
}
