package budget

import (
	"fmt"
	"strings"

	"github.com/bayneri/lossbudget/internal/standards"
)

const (
	// MaxSegments is the largest number of spans a link may be built from.
	MaxSegments = 3

	DefaultSafetyMarginDb = 3.0
)

const (
	StatusPass     = "pass"
	StatusFail     = "fail"
	StatusPartial  = "partial"
	StatusNoBudget = "no-budget"
)

type DistanceUnit string

const (
	Kilometers DistanceUnit = "km"
	Meters     DistanceUnit = "meters"
)

func ParseDistanceUnit(input string) (DistanceUnit, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "km", "kilometers", "kilometres":
		return Kilometers, nil
	case "m", "meters", "metres":
		return Meters, nil
	default:
		return "", fmt.Errorf("unit must be km or meters, got %q", input)
	}
}

type Segment struct {
	Fiber          standards.FiberType  `json:"fiber"`
	Wavelength     standards.Wavelength `json:"wavelength"`
	Distance       float64              `json:"distance"`
	Unit           DistanceUnit         `json:"unit"`
	SpliceCount    int                  `json:"splices"`
	ConnectorCount int                  `json:"connectors"`
}

// DistanceKm converts the segment length to kilometers.
func (s Segment) DistanceKm() float64 {
	if s.Unit == Meters {
		return s.Distance / 1000
	}
	return s.Distance
}

// Override replaces the per-fiber typical values for every segment.
type Override struct {
	AttenuationDbPerKm float64 `json:"attenuationDbPerKm"`
	SpliceLossDb       float64 `json:"spliceLossDb"`
	ConnectorLossDb    float64 `json:"connectorLossDb"`
}

type Parameters struct {
	SafetyMarginDb float64   `json:"safetyMarginDb"`
	Override       *Override `json:"override,omitempty"`
}

// Request is one calculation. An empty ReferenceFiber means the fiber of the
// first segment.
type Request struct {
	Segments       []Segment           `json:"segments"`
	Parameters     Parameters          `json:"parameters"`
	ReferenceFiber standards.FiberType `json:"referenceFiber,omitempty"`
}

type SegmentLoss struct {
	Index           int                  `json:"index"`
	Fiber           standards.FiberType  `json:"fiber"`
	Wavelength      standards.Wavelength `json:"wavelength"`
	DistanceKm      float64              `json:"distanceKm"`
	AttenuationUsed float64              `json:"attenuationDbPerKm"`
	FiberLossDb     float64              `json:"fiberLossDb"`
	SpliceLossDb    float64              `json:"spliceLossDb"`
	ConnectorLossDb float64              `json:"connectorLossDb"`
}

type Verdict struct {
	Speed    standards.Speed `json:"speed"`
	BudgetDb float64         `json:"budgetDb"`
	MarginDb float64         `json:"marginDb"`
	Pass     bool            `json:"pass"`
}

type Breakdown struct {
	ReferenceFiber       standards.FiberType `json:"referenceFiber"`
	TotalDistanceKm      float64             `json:"totalDistanceKm"`
	TotalFiberLossDb     float64             `json:"totalFiberLossDb"`
	TotalSpliceLossDb    float64             `json:"totalSpliceLossDb"`
	TotalConnectorLossDb float64             `json:"totalConnectorLossDb"`
	SafetyMarginDb       float64             `json:"safetyMarginDb"`
	TotalLossDb          float64             `json:"totalLossDb"`
	OverrideApplied      bool                `json:"overrideApplied"`
	Segments             []SegmentLoss       `json:"segments"`
	Verdicts             []Verdict           `json:"budgetResults"`
}

// Status summarizes the verdicts: pass when all pass, fail when none do.
func (b Breakdown) Status() string {
	if len(b.Verdicts) == 0 {
		return StatusNoBudget
	}
	passed := 0
	for _, v := range b.Verdicts {
		if v.Pass {
			passed++
		}
	}
	switch passed {
	case len(b.Verdicts):
		return StatusPass
	case 0:
		return StatusFail
	default:
		return StatusPartial
	}
}

func (b Breakdown) Verdict(speed standards.Speed) (Verdict, bool) {
	for _, v := range b.Verdicts {
		if v.Speed == speed {
			return v, true
		}
	}
	return Verdict{}, false
}

type WavelengthLoss struct {
	Wavelength    standards.Wavelength `json:"wavelength"`
	MaxLossDb     float64              `json:"maxLossDb"`
	TypicalLossDb float64              `json:"typicalLossDb"`
}
