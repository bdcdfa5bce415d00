package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/stardust/internal/sim"
)

type ExportData struct {
	Meta  RunMetadata     `json:"meta"`
	Ticks []sim.TickStats `json:"ticks"`
}

// ExportJSON writes a stored run as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	ticks, err := s.LoadTicks(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Meta: *meta, Ticks: ticks})
}
