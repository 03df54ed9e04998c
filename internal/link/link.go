package link

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/bayneri/lossbudget/internal/standards"
	"github.com/go-playground/validator/v10"
)

const (
	APIVersionV1 = "lossbudget.dev/v1"
	KindLink     = "FiberLink"
)

// DefaultUnit applies to segments that leave unit empty.
const DefaultUnit = budget.Meters

type Document struct {
	APIVersion     string    `yaml:"apiVersion" json:"apiVersion" validate:"required"`
	Kind           string    `yaml:"kind" json:"kind" validate:"required"`
	Metadata       Metadata  `yaml:"metadata" json:"metadata"`
	Reference      string    `yaml:"reference,omitempty" json:"reference,omitempty"`
	SafetyMarginDb *float64  `yaml:"safetyMarginDb,omitempty" json:"safetyMarginDb,omitempty" validate:"omitempty,gte=0"`
	Override       *Override `yaml:"override,omitempty" json:"override,omitempty"`
	Segments       []Segment `yaml:"segments" json:"segments" validate:"min=1,max=3,dive"`
}

type Metadata struct {
	Name   string            `yaml:"name" json:"name" validate:"required"`
	Site   string            `yaml:"site,omitempty" json:"site,omitempty"`
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

type Override struct {
	AttenuationDbPerKm float64 `yaml:"attenuationDbPerKm" json:"attenuationDbPerKm" validate:"gte=0"`
	SpliceLossDb       float64 `yaml:"spliceLossDb" json:"spliceLossDb" validate:"gte=0"`
	ConnectorLossDb    float64 `yaml:"connectorLossDb" json:"connectorLossDb" validate:"gte=0"`
}

// Segment mirrors budget.Segment with string ids. Splices and connectors
// default to zero when omitted; distance has no default.
type Segment struct {
	Fiber      string   `yaml:"fiber" json:"fiber" validate:"required"`
	Wavelength string   `yaml:"wavelength" json:"wavelength" validate:"required"`
	Distance   *float64 `yaml:"distance" json:"distance" validate:"required,gte=0"`
	Unit       string   `yaml:"unit,omitempty" json:"unit,omitempty"`
	Splices    *int     `yaml:"splices,omitempty" json:"splices,omitempty" validate:"omitempty,gte=0"`
	Connectors *int     `yaml:"connectors,omitempty" json:"connectors,omitempty" validate:"omitempty,gte=0"`
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports every problem in the document at once. Distance range is
// left to the calculator.
func (d Document) Validate(table standards.Table) error {
	var errs []string
	if d.APIVersion != "" && d.APIVersion != APIVersionV1 {
		errs = append(errs, fmt.Sprintf("apiVersion must be %q", APIVersionV1))
	}
	if d.Kind != "" && d.Kind != KindLink {
		errs = append(errs, fmt.Sprintf("kind must be %q", KindLink))
	}
	errs = append(errs, structErrors(d)...)

	if d.Reference != "" {
		if _, err := table.Profile(standards.ParseFiberType(d.Reference)); err != nil {
			errs = append(errs, fmt.Sprintf("reference: %v", err))
		}
	}
	for i, seg := range d.Segments {
		prefix := fmt.Sprintf("segments[%d]", i)
		if seg.Unit != "" {
			if _, err := budget.ParseDistanceUnit(seg.Unit); err != nil {
				errs = append(errs, fmt.Sprintf("%s.%v", prefix, err))
			}
		}
		if strings.TrimSpace(seg.Fiber) == "" {
			continue
		}
		profile, err := table.Profile(standards.ParseFiberType(seg.Fiber))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s.fiber: %v", prefix, err))
			continue
		}
		if strings.TrimSpace(seg.Wavelength) == "" {
			continue
		}
		if _, err := profile.Attenuation(standards.ParseWavelength(seg.Wavelength)); err != nil {
			errs = append(errs, fmt.Sprintf("%s.wavelength: %v", prefix, err))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func structErrors(d Document) []string {
	err := structValidator.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	var out []string
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Document.")
		out = append(out, fmt.Sprintf("%s %s", field, ruleMessage(fe)))
	}
	sort.Strings(out)
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s item(s)", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s item(s)", fe.Param())
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}

// Request converts a validated document into a calculator request. An absent
// safety margin becomes budget.DefaultSafetyMarginDb.
func (d Document) Request() (budget.Request, error) {
	req := budget.Request{
		ReferenceFiber: standards.ParseFiberType(d.Reference),
		Parameters:     budget.Parameters{SafetyMarginDb: budget.DefaultSafetyMarginDb},
	}
	if d.SafetyMarginDb != nil {
		req.Parameters.SafetyMarginDb = *d.SafetyMarginDb
	}
	if d.Override != nil {
		req.Parameters.Override = &budget.Override{
			AttenuationDbPerKm: d.Override.AttenuationDbPerKm,
			SpliceLossDb:       d.Override.SpliceLossDb,
			ConnectorLossDb:    d.Override.ConnectorLossDb,
		}
	}
	for i, seg := range d.Segments {
		out, err := seg.ToBudget(i + 1)
		if err != nil {
			return budget.Request{}, err
		}
		req.Segments = append(req.Segments, out)
	}
	return req, nil
}

// ToBudget converts one segment. Errors carry the 1-based index.
func (s Segment) ToBudget(index int) (budget.Segment, error) {
	if s.Distance == nil {
		return budget.Segment{}, &budget.InputError{Segment: index, Field: "distance", Reason: "is required"}
	}
	unit := DefaultUnit
	if s.Unit != "" {
		parsed, err := budget.ParseDistanceUnit(s.Unit)
		if err != nil {
			return budget.Segment{}, &budget.InputError{Segment: index, Field: "unit", Reason: "must be km or meters"}
		}
		unit = parsed
	}
	out := budget.Segment{
		Fiber:      standards.ParseFiberType(s.Fiber),
		Wavelength: standards.ParseWavelength(s.Wavelength),
		Distance:   *s.Distance,
		Unit:       unit,
	}
	if s.Splices != nil {
		out.SpliceCount = *s.Splices
	}
	if s.Connectors != nil {
		out.ConnectorCount = *s.Connectors
	}
	return out, nil
}
