package main

import (
	"errors"

	"github.com/bayneri/lossbudget/internal/link"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// linkOptions describe the link under test, either as a YAML document or as
// a single segment given on the command line.
type linkOptions struct {
	file string

	name       string
	site       string
	fiber      string
	wavelength string
	distance   float64
	unit       string
	splices    int
	connectors int
	margin     float64

	attenuation   float64
	spliceLoss    float64
	connectorLoss float64
}

func (o *linkOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.file, "file", "f", "", "path to a FiberLink YAML document")
	fs.StringVar(&o.name, "name", "adhoc", "link name when no file is given")
	fs.StringVar(&o.site, "site", "", "site when no file is given")
	fs.StringVar(&o.fiber, "fiber", "", "fiber type: OS2, OM3, OM4, OM5")
	fs.StringVar(&o.wavelength, "wavelength", "", "wavelength, e.g. 1550nm")
	fs.Float64Var(&o.distance, "distance", 0, "segment length")
	fs.StringVar(&o.unit, "unit", "", "distance unit: km or meters (default meters)")
	fs.IntVar(&o.splices, "splices", 0, "number of fusion splices")
	fs.IntVar(&o.connectors, "connectors", 0, "number of mated connector pairs")
	fs.Float64Var(&o.margin, "safety-margin", 3, "safety margin in dB")
	fs.Float64Var(&o.attenuation, "attenuation", 0, "custom attenuation in dB/km, replaces the standard value")
	fs.Float64Var(&o.spliceLoss, "splice-loss", 0, "custom loss per splice in dB")
	fs.Float64Var(&o.connectorLoss, "connector-loss", 0, "custom loss per connector in dB")
}

func (o *linkOptions) Load(cmd *cobra.Command) (link.Document, error) {
	if o.file != "" {
		return link.Load(o.file)
	}
	flags := cmd.Flags()
	if o.fiber == "" || !flags.Changed("distance") {
		return link.Document{}, errors.New("either -f or --fiber and --distance are required")
	}

	distance := o.distance
	splices := o.splices
	connectors := o.connectors
	doc := link.Document{
		APIVersion: link.APIVersionV1,
		Kind:       link.KindLink,
		Metadata:   link.Metadata{Name: o.name, Site: o.site},
		Segments: []link.Segment{{
			Fiber:      o.fiber,
			Wavelength: o.wavelength,
			Distance:   &distance,
			Unit:       o.unit,
			Splices:    &splices,
			Connectors: &connectors,
		}},
	}
	if flags.Changed("safety-margin") {
		margin := o.margin
		doc.SafetyMarginDb = &margin
	}
	if flags.Changed("attenuation") || flags.Changed("splice-loss") || flags.Changed("connector-loss") {
		doc.Override = &link.Override{
			AttenuationDbPerKm: o.attenuation,
			SpliceLossDb:       o.spliceLoss,
			ConnectorLossDb:    o.connectorLoss,
		}
	}
	return doc, nil
}
