package budget

import (
	"math"

	"github.com/bayneri/lossbudget/internal/standards"
)

// Calculator evaluates requests against one standards table. It holds no
// other state and is safe for concurrent use.
type Calculator struct {
	table standards.Table
}

func New(table standards.Table) *Calculator {
	return &Calculator{table: table}
}

func (c *Calculator) Table() standards.Table {
	return c.table
}

// ComputeLossBudget sums fiber, splice and connector loss over the segments
// in order and compares the total against the reference fiber's budgets. It
// stops at the first segment that fails validation or the range check.
func (c *Calculator) ComputeLossBudget(req Request) (Breakdown, error) {
	if len(req.Segments) == 0 {
		return Breakdown{}, &InputError{Field: "segments", Reason: "must contain at least one segment"}
	}
	if len(req.Segments) > MaxSegments {
		return Breakdown{}, &InputError{Field: "segments", Reason: "must contain at most 3 segments"}
	}
	if err := validateParameters(req.Parameters); err != nil {
		return Breakdown{}, err
	}

	out := Breakdown{
		SafetyMarginDb:  req.Parameters.SafetyMarginDb,
		OverrideApplied: req.Parameters.Override != nil,
	}
	for i, seg := range req.Segments {
		index := i + 1
		profile, km, err := c.checkSegment(index, seg)
		if err != nil {
			return Breakdown{}, err
		}
		if seg.Wavelength == "" {
			return Breakdown{}, &InputError{Segment: index, Field: "wavelength", Reason: "is required"}
		}
		att, err := profile.Attenuation(seg.Wavelength)
		if err != nil {
			return Breakdown{}, &ConfigError{Segment: index, Err: err}
		}

		perKm := att.TypicalDbPerKm
		splice := profile.SpliceLoss.TypicalDb
		connector := profile.ConnectorLoss.TypicalDb
		if o := req.Parameters.Override; o != nil {
			perKm = o.AttenuationDbPerKm
			splice = o.SpliceLossDb
			connector = o.ConnectorLossDb
		}

		loss := SegmentLoss{
			Index:           index,
			Fiber:           seg.Fiber,
			Wavelength:      seg.Wavelength,
			DistanceKm:      km,
			AttenuationUsed: perKm,
			FiberLossDb:     km * perKm,
			SpliceLossDb:    float64(seg.SpliceCount) * splice,
			ConnectorLossDb: float64(seg.ConnectorCount) * connector,
		}
		out.Segments = append(out.Segments, loss)
		out.TotalFiberLossDb += loss.FiberLossDb
		out.TotalSpliceLossDb += loss.SpliceLossDb
		out.TotalConnectorLossDb += loss.ConnectorLossDb
		out.TotalDistanceKm += km
	}
	out.TotalLossDb = out.TotalFiberLossDb + out.TotalSpliceLossDb + out.TotalConnectorLossDb + out.SafetyMarginDb

	reference := req.ReferenceFiber
	if reference == "" {
		reference = req.Segments[0].Fiber
	}
	refProfile, err := c.table.Profile(reference)
	if err != nil {
		return Breakdown{}, &ConfigError{Err: err}
	}
	out.ReferenceFiber = reference
	for _, b := range refProfile.BudgetList() {
		margin := b.Db - out.TotalLossDb
		out.Verdicts = append(out.Verdicts, Verdict{
			Speed:    b.Speed,
			BudgetDb: b.Db,
			MarginDb: margin,
			Pass:     margin >= 0,
		})
	}
	return out, nil
}

// ComputeAllWavelengths reports worst-case and typical loss of one segment at
// every wavelength its fiber supports. The segment's own wavelength is not
// consulted.
func (c *Calculator) ComputeAllWavelengths(seg Segment) ([]WavelengthLoss, error) {
	profile, km, err := c.checkSegment(1, seg)
	if err != nil {
		return nil, err
	}
	splices := float64(seg.SpliceCount)
	connectors := float64(seg.ConnectorCount)
	var out []WavelengthLoss
	for _, wl := range profile.WavelengthList() {
		att := profile.Wavelengths[wl]
		out = append(out, WavelengthLoss{
			Wavelength:    wl,
			MaxLossDb:     km*att.MaxDbPerKm + splices*profile.SpliceLoss.MaxDb + connectors*profile.ConnectorLoss.MaxDb,
			TypicalLossDb: km*att.TypicalDbPerKm + splices*profile.SpliceLoss.TypicalDb + connectors*profile.ConnectorLoss.TypicalDb,
		})
	}
	return out, nil
}

func (c *Calculator) checkSegment(index int, seg Segment) (standards.Profile, float64, error) {
	if seg.Fiber == "" {
		return standards.Profile{}, 0, &InputError{Segment: index, Field: "fiber", Reason: "is required"}
	}
	profile, err := c.table.Profile(seg.Fiber)
	if err != nil {
		return standards.Profile{}, 0, &ConfigError{Segment: index, Err: err}
	}
	if seg.Unit != Kilometers && seg.Unit != Meters {
		return standards.Profile{}, 0, &InputError{Segment: index, Field: "unit", Reason: "must be km or meters"}
	}
	if !finite(seg.Distance) || seg.Distance < 0 {
		return standards.Profile{}, 0, &InputError{Segment: index, Field: "distance", Reason: "must be a non-negative number"}
	}
	if seg.SpliceCount < 0 {
		return standards.Profile{}, 0, &InputError{Segment: index, Field: "splices", Reason: "must be a non-negative integer"}
	}
	if seg.ConnectorCount < 0 {
		return standards.Profile{}, 0, &InputError{Segment: index, Field: "connectors", Reason: "must be a non-negative integer"}
	}
	km := seg.DistanceKm()
	if km > profile.MaxDistanceKm() {
		return standards.Profile{}, 0, &RangeError{
			Segment:    index,
			Distance:   seg.Distance,
			Unit:       seg.Unit,
			DistanceKm: km,
			Fiber:      seg.Fiber,
			MaxKm:      profile.MaxDistanceKm(),
		}
	}
	return profile, km, nil
}

func validateParameters(p Parameters) error {
	if !finite(p.SafetyMarginDb) || p.SafetyMarginDb < 0 {
		return &InputError{Field: "safetyMarginDb", Reason: "must be a non-negative number"}
	}
	if o := p.Override; o != nil {
		fields := []struct {
			name  string
			value float64
		}{
			{"override.attenuationDbPerKm", o.AttenuationDbPerKm},
			{"override.spliceLossDb", o.SpliceLossDb},
			{"override.connectorLossDb", o.ConnectorLossDb},
		}
		for _, f := range fields {
			if !finite(f.value) || f.value < 0 {
				return &InputError{Field: f.name, Reason: "must be a non-negative number"}
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
