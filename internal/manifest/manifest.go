package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gruppe-adler/demgen/internal/raster"
	"github.com/gruppe-adler/demgen/internal/terrain"
)

// Synthesis records the parameters the terrain was generated with.
type Synthesis struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	HalfWidthX int     `json:"halfWidthX"`
	HalfWidthY int     `json:"halfWidthY"`
	Shape      float64 `json:"shape"`
	Method     string  `json:"method"`
	Seed       int64   `json:"seed"`
}

// Manifest describes one generator run and everything it wrote.
type Manifest struct {
	Generator string           `json:"generator"`
	RunID     string           `json:"runId"`
	Created   time.Time        `json:"created"`
	Synthesis Synthesis        `json:"synthesis"`
	Raster    *raster.Artifact `json:"raster"`
	Sidecars  []string         `json:"sidecars,omitempty"`
}

// New starts a manifest with a fresh run id.
func New(p terrain.Params, seed int64) *Manifest {
	return &Manifest{
		Generator: "demgen",
		RunID:     uuid.NewString(),
		Created:   time.Now().UTC(),
		Synthesis: Synthesis{
			Width:      p.Width,
			Height:     p.Height,
			HalfWidthX: p.HalfWidthX,
			HalfWidthY: p.HalfWidthY,
			Shape:      p.Shape,
			Method:     string(p.Method),
			Seed:       seed,
		},
	}
}

// Write a manifest to path
func Write(path string, m *Manifest) error {
	bytes, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := f.Write(bytes); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Read a manifest from given path
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &m, nil
}
