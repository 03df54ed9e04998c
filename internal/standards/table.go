package standards

// Attenuation and joint losses follow ITU-T G.652.D and TIA-568. Budgets are
// IEEE 802.3 channel insertion loss allowances.
var builtin = Table{
	OS2: {
		Name:              "Single-Mode (ITU-T G.652.D)",
		MaxDistanceMeters: 10000,
		Wavelengths: map[Wavelength]Attenuation{
			"1310nm": {MaxDbPerKm: 0.4, TypicalDbPerKm: 0.35},
			"1550nm": {MaxDbPerKm: 0.3, TypicalDbPerKm: 0.22},
		},
		SpliceLoss:    JointLoss{MaxDb: 0.3, TypicalDb: 0.05},
		ConnectorLoss: JointLoss{MaxDb: 0.75, TypicalDb: 0.25},
		Budgets: map[Speed]float64{
			Speed10G:  10,
			Speed25G:  6.3,
			Speed40G:  8,
			Speed50G:  6.3,
			Speed100G: 6.3,
		},
	},
	OM3: {
		Name:              "Multimode OM3",
		MaxDistanceMeters: 300,
		Wavelengths: map[Wavelength]Attenuation{
			"850nm":  {MaxDbPerKm: 3.0, TypicalDbPerKm: 2.5},
			"1300nm": {MaxDbPerKm: 1.5, TypicalDbPerKm: 0.8},
		},
		SpliceLoss:    JointLoss{MaxDb: 0.3, TypicalDb: 0.1},
		ConnectorLoss: JointLoss{MaxDb: 0.75, TypicalDb: 0.3},
		Budgets: map[Speed]float64{
			Speed10G:  2.6,
			Speed25G:  1.8,
			Speed40G:  1.9,
			Speed100G: 1.8,
		},
	},
	OM4: {
		Name:              "Multimode OM4",
		MaxDistanceMeters: 400,
		Wavelengths: map[Wavelength]Attenuation{
			"850nm":  {MaxDbPerKm: 3.0, TypicalDbPerKm: 2.5},
			"1300nm": {MaxDbPerKm: 1.5, TypicalDbPerKm: 0.8},
		},
		SpliceLoss:    JointLoss{MaxDb: 0.3, TypicalDb: 0.1},
		ConnectorLoss: JointLoss{MaxDb: 0.75, TypicalDb: 0.3},
		Budgets: map[Speed]float64{
			Speed10G:  2.6,
			Speed25G:  1.9,
			Speed40G:  1.9,
			Speed50G:  1.9,
			Speed100G: 1.9,
		},
	},
	OM5: {
		Name:              "Multimode OM5",
		MaxDistanceMeters: 440,
		Wavelengths: map[Wavelength]Attenuation{
			"850nm": {MaxDbPerKm: 3.0, TypicalDbPerKm: 2.4},
			"953nm": {MaxDbPerKm: 2.2, TypicalDbPerKm: 1.9},
		},
		SpliceLoss:    JointLoss{MaxDb: 0.3, TypicalDb: 0.1},
		ConnectorLoss: JointLoss{MaxDb: 0.75, TypicalDb: 0.3},
		Budgets: map[Speed]float64{
			Speed10G:  2.6,
			Speed25G:  1.9,
			Speed40G:  1.9,
			Speed50G:  1.9,
			Speed100G: 1.9,
		},
	},
}

// Default returns a copy of the built-in table that callers may modify.
func Default() Table {
	return builtin.Clone()
}

func (t Table) Clone() Table {
	out := make(Table, len(t))
	for fiber, profile := range t {
		out[fiber] = profile.clone()
	}
	return out
}

func (p Profile) clone() Profile {
	out := p
	out.Wavelengths = make(map[Wavelength]Attenuation, len(p.Wavelengths))
	for k, v := range p.Wavelengths {
		out.Wavelengths[k] = v
	}
	out.Budgets = make(map[Speed]float64, len(p.Budgets))
	for k, v := range p.Budgets {
		out.Budgets[k] = v
	}
	return out
}
