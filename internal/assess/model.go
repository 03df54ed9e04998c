package assess

import (
	"time"

	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/bayneri/lossbudget/internal/standards"
)

const SchemaVersion = "1.0"

type Result struct {
	SchemaVersion string            `json:"schemaVersion"`
	ID            string            `json:"id"`
	GeneratedAt   time.Time         `json:"generatedAt"`
	Link          string            `json:"link"`
	Site          string            `json:"site,omitempty"`
	Labels        map[string]string `json:"labels,omitempty"`
	Status        string            `json:"status"`
	Breakdown     budget.Breakdown  `json:"breakdown"`
	Sweeps        []Sweep           `json:"sweeps,omitempty"`
	Notes         []string          `json:"notes"`
	Explain       *Explain          `json:"explain,omitempty"`
}

// Sweep is the per-wavelength survey of one segment.
type Sweep struct {
	Segment     int                     `json:"segment"`
	Fiber       standards.FiberType     `json:"fiber"`
	Wavelengths []budget.WavelengthLoss `json:"wavelengths"`
}

type Explain struct {
	Formula string   `json:"formula"`
	Notes   []string `json:"notes"`
}
