package standards

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type FiberType string

type Wavelength string

type Speed string

const (
	OS2 FiberType = "OS2"
	OM3 FiberType = "OM3"
	OM4 FiberType = "OM4"
	OM5 FiberType = "OM5"
)

const (
	Speed10G  Speed = "10G"
	Speed25G  Speed = "25G"
	Speed40G  Speed = "40G"
	Speed50G  Speed = "50G"
	Speed100G Speed = "100G"
)

// Speeds is the order verdicts are reported in.
var Speeds = []Speed{Speed10G, Speed25G, Speed40G, Speed50G, Speed100G}

var (
	ErrUnknownFiber      = errors.New("unknown fiber type")
	ErrUnknownWavelength = errors.New("unknown wavelength")
)

type Attenuation struct {
	MaxDbPerKm     float64 `yaml:"maxDbPerKm" json:"maxDbPerKm"`
	TypicalDbPerKm float64 `yaml:"typicalDbPerKm" json:"typicalDbPerKm"`
}

type JointLoss struct {
	MaxDb     float64 `yaml:"maxDb" json:"maxDb"`
	TypicalDb float64 `yaml:"typicalDb" json:"typicalDb"`
}

type Profile struct {
	Name              string                     `yaml:"name" json:"name"`
	MaxDistanceMeters float64                    `yaml:"maxDistanceMeters" json:"maxDistanceMeters"`
	Wavelengths       map[Wavelength]Attenuation `yaml:"wavelengths" json:"wavelengths"`
	SpliceLoss        JointLoss                  `yaml:"spliceLoss" json:"spliceLoss"`
	ConnectorLoss     JointLoss                  `yaml:"connectorLoss" json:"connectorLoss"`
	Budgets           map[Speed]float64          `yaml:"budgets" json:"budgets"`
}

type Budget struct {
	Speed Speed   `json:"speed"`
	Db    float64 `json:"budgetDb"`
}

type Table map[FiberType]Profile

func ParseFiberType(input string) FiberType {
	return FiberType(strings.ToUpper(strings.TrimSpace(input)))
}

func ParseSpeed(input string) Speed {
	return Speed(strings.ToUpper(strings.TrimSpace(input)))
}

// ParseWavelength normalizes "1550", "1550 nm" and "1550NM" to "1550nm".
func ParseWavelength(input string) Wavelength {
	value := strings.ToLower(strings.TrimSpace(input))
	value = strings.TrimSuffix(value, "nm")
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return Wavelength(value + "nm")
}

// Nanometers returns the numeric part of the label, or 0 when it does not parse.
func (w Wavelength) Nanometers() float64 {
	value, err := strconv.ParseFloat(strings.TrimSuffix(string(w), "nm"), 64)
	if err != nil {
		return 0
	}
	return value
}

func (t Table) Profile(fiber FiberType) (Profile, error) {
	if profile, ok := t[fiber]; ok {
		return profile, nil
	}
	return Profile{}, fmt.Errorf("%w %q, must be one of %v", ErrUnknownFiber, string(fiber), t.FiberTypes())
}

func (t Table) FiberTypes() []FiberType {
	var out []FiberType
	for k := range t {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p Profile) MaxDistanceKm() float64 {
	return p.MaxDistanceMeters / 1000
}

func (p Profile) Attenuation(wavelength Wavelength) (Attenuation, error) {
	if att, ok := p.Wavelengths[wavelength]; ok {
		return att, nil
	}
	return Attenuation{}, fmt.Errorf("%w %q for %s, must be one of %v", ErrUnknownWavelength, string(wavelength), p.Name, p.WavelengthList())
}

// WavelengthList returns the supported wavelengths, shortest first.
func (p Profile) WavelengthList() []Wavelength {
	var out []Wavelength
	for wl := range p.Wavelengths {
		out = append(out, wl)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Nanometers(), out[j].Nanometers()
		if a == b {
			return out[i] < out[j]
		}
		return a < b
	})
	return out
}

// BudgetList returns the defined budgets in Speeds order. Speeds outside
// that list follow, sorted by name.
func (p Profile) BudgetList() []Budget {
	var out []Budget
	known := map[Speed]bool{}
	for _, speed := range Speeds {
		known[speed] = true
		if db, ok := p.Budgets[speed]; ok {
			out = append(out, Budget{Speed: speed, Db: db})
		}
	}
	var extra []Speed
	for speed := range p.Budgets {
		if !known[speed] {
			extra = append(extra, speed)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, speed := range extra {
		out = append(out, Budget{Speed: speed, Db: p.Budgets[speed]})
	}
	return out
}

func (t Table) Validate() error {
	var errs []string
	if len(t) == 0 {
		errs = append(errs, "at least one fiber profile is required")
	}
	for _, fiber := range t.FiberTypes() {
		for _, msg := range validateProfile(t[fiber]) {
			errs = append(errs, fmt.Sprintf("%s: %s", fiber, msg))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateProfile(p Profile) []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if p.MaxDistanceMeters <= 0 {
		errs = append(errs, "maxDistanceMeters must be positive")
	}
	if len(p.Wavelengths) == 0 {
		errs = append(errs, "at least one wavelength is required")
	}
	for _, wl := range p.WavelengthList() {
		att := p.Wavelengths[wl]
		if wl.Nanometers() <= 0 {
			errs = append(errs, fmt.Sprintf("wavelength %q must look like 1310nm", wl))
		}
		if msg := checkPair(att.MaxDbPerKm, att.TypicalDbPerKm); msg != "" {
			errs = append(errs, fmt.Sprintf("wavelengths.%s: %s", wl, msg))
		}
	}
	if msg := checkPair(p.SpliceLoss.MaxDb, p.SpliceLoss.TypicalDb); msg != "" {
		errs = append(errs, "spliceLoss: "+msg)
	}
	if msg := checkPair(p.ConnectorLoss.MaxDb, p.ConnectorLoss.TypicalDb); msg != "" {
		errs = append(errs, "connectorLoss: "+msg)
	}
	for _, budget := range p.BudgetList() {
		if budget.Db < 0 {
			errs = append(errs, fmt.Sprintf("budgets.%s must not be negative", budget.Speed))
		}
	}
	return errs
}

func checkPair(max, typical float64) string {
	if max < 0 || typical < 0 {
		return "values must not be negative"
	}
	if typical > max {
		return fmt.Sprintf("typical %.3g exceeds max %.3g", typical, max)
	}
	return ""
}
