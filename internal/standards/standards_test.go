package standards

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultTableInvariants(t *testing.T) {
	table := Default()
	if err := table.Validate(); err != nil {
		t.Fatalf("built-in table invalid: %v", err)
	}
	for _, fiber := range table.FiberTypes() {
		profile := table[fiber]
		for wl, att := range profile.Wavelengths {
			if att.TypicalDbPerKm > att.MaxDbPerKm {
				t.Fatalf("%s %s: typical %v > max %v", fiber, wl, att.TypicalDbPerKm, att.MaxDbPerKm)
			}
			if att.TypicalDbPerKm < 0 || att.MaxDbPerKm < 0 {
				t.Fatalf("%s %s: negative attenuation", fiber, wl)
			}
		}
		if profile.SpliceLoss.TypicalDb > profile.SpliceLoss.MaxDb {
			t.Fatalf("%s: splice typical > max", fiber)
		}
		if profile.ConnectorLoss.TypicalDb > profile.ConnectorLoss.MaxDb {
			t.Fatalf("%s: connector typical > max", fiber)
		}
		if profile.MaxDistanceMeters <= 0 {
			t.Fatalf("%s: max distance must be positive", fiber)
		}
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	a := Default()
	a[OS2].Budgets[Speed10G] = 99
	b := Default()
	if b[OS2].Budgets[Speed10G] != 10 {
		t.Fatalf("Default shares state between calls: got %v", b[OS2].Budgets[Speed10G])
	}
}

func TestParseWavelength(t *testing.T) {
	cases := []struct {
		in   string
		want Wavelength
	}{
		{"1550nm", "1550nm"},
		{"1550", "1550nm"},
		{" 1310 nm ", "1310nm"},
		{"850NM", "850nm"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ParseWavelength(tc.in); got != tc.want {
			t.Fatalf("ParseWavelength(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseFiberType(t *testing.T) {
	if got := ParseFiberType(" om4 "); got != OM4 {
		t.Fatalf("expected OM4, got %q", got)
	}
}

func TestProfileLookupErrors(t *testing.T) {
	table := Default()
	_, err := table.Profile("OM9")
	if !errors.Is(err, ErrUnknownFiber) {
		t.Fatalf("expected ErrUnknownFiber, got %v", err)
	}
	_, err = table[OS2].Attenuation("850nm")
	if !errors.Is(err, ErrUnknownWavelength) {
		t.Fatalf("expected ErrUnknownWavelength, got %v", err)
	}
}

func TestWavelengthListOrder(t *testing.T) {
	got := Default()[OM5].WavelengthList()
	if len(got) != 2 || got[0] != "850nm" || got[1] != "953nm" {
		t.Fatalf("unexpected order %v", got)
	}
	got = Default()[OS2].WavelengthList()
	if got[0] != "1310nm" || got[1] != "1550nm" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestBudgetListOrder(t *testing.T) {
	profile := Profile{Budgets: map[Speed]float64{
		Speed100G: 1, "800G": 2, Speed10G: 3, "400G": 4,
	}}
	got := profile.BudgetList()
	var speeds []string
	for _, b := range got {
		speeds = append(speeds, string(b.Speed))
	}
	want := "10G,100G,400G,800G"
	if strings.Join(speeds, ",") != want {
		t.Fatalf("got %v, want %s", speeds, want)
	}
}

func TestBudgetListOmitsAbsentSpeeds(t *testing.T) {
	for _, b := range Default()[OM3].BudgetList() {
		if b.Speed == Speed50G {
			t.Fatalf("OM3 has no 50G budget, got one")
		}
	}
}

func TestValidateRejectsInvertedPairs(t *testing.T) {
	table := Table{
		"X1": {
			Name:              "bad",
			MaxDistanceMeters: 100,
			Wavelengths:       map[Wavelength]Attenuation{"850nm": {MaxDbPerKm: 1, TypicalDbPerKm: 2}},
			SpliceLoss:        JointLoss{MaxDb: 0.1, TypicalDb: 0.3},
			ConnectorLoss:     JointLoss{MaxDb: -1, TypicalDb: 0},
		},
	}
	err := table.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"wavelengths.850nm", "spliceLoss", "connectorLoss"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestParseOverlay(t *testing.T) {
	data := []byte(`
profiles:
  os2:
    name: Single-Mode low-water-peak
    maxDistanceMeters: 40000
    wavelengths:
      "1310": {maxDbPerKm: 0.35, typicalDbPerKm: 0.32}
      1550nm: {maxDbPerKm: 0.25, typicalDbPerKm: 0.19}
    spliceLoss: {maxDb: 0.3, typicalDb: 0.05}
    connectorLoss: {maxDb: 0.75, typicalDb: 0.25}
    budgets: {10g: 12}
`)
	table, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	profile := table[OS2]
	if profile.MaxDistanceMeters != 40000 {
		t.Fatalf("overlay not applied: %v", profile.MaxDistanceMeters)
	}
	if _, err := profile.Attenuation("1310nm"); err != nil {
		t.Fatalf("wavelength key not normalized: %v", err)
	}
	if profile.Budgets[Speed10G] != 12 {
		t.Fatalf("budget key not normalized: %v", profile.Budgets)
	}
	if _, ok := table[OM3]; !ok {
		t.Fatalf("built-in profiles should survive the overlay")
	}
}

func TestParseOverlayInvalid(t *testing.T) {
	data := []byte(`
profiles:
  OM9:
    name: broken
    maxDistanceMeters: 0
`)
	if _, err := Parse(data); err == nil {
		t.Fatalf("expected validation error")
	}
}
