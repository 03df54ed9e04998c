package explain

import (
	"fmt"
	"sort"
	"strings"
)

const (
	TopicWavelength = "wavelength"
	TopicOTDR       = "otdr"
	TopicStandards  = "standards"
)

var topics = map[string]string{
	TopicWavelength: `Which wavelength should the budget use?

Single-mode (OS2): use 1550nm as the reference. It is more sensitive to bends and stress than 1310nm, so an OTDR report at 1550nm gives the most accurate splice count for the budget.

Multimode (OM3, OM4, OM5): use 850nm. It is the primary transmission wavelength and its higher natural loss gives a worst-case figure for a conservative budget.

Run "lossbudget sweep" to compare max and typical loss at every wavelength a fiber type supports.`,

	TopicOTDR: `Reading an OTDR trace

1. Fusion splices show as a small, sharp drop with no reflection. A loss under 0.1 dB (for example 0.042 dB) is a high-quality splice. Count these for the splices field of each segment.

2. Connectors show as a reflective spike followed by a drop. Count every mated pair, including patch panels, for the connectors field.

3. The end of the fiber is the final event: a large reflective spike, after which the trace falls into noise. Its position is the distance to enter for the segment.`,

	TopicStandards: `Standards behind the reference table

ITU-T G.652: attenuation (dB/km) for single-mode fiber.
  https://www.itu.int/rec/T-REC-G.652

TIA-568 series: maximum loss per connector (0.75 dB) and per splice (0.3 dB), and multimode attenuation.
  https://www.tiaonline.org/products-and-services/standards/

ISO/IEC 11801: the international equivalent of TIA-568.
  https://www.iso.org/committee/45838.html

IEEE 802.3: channel insertion loss budgets per speed (10G through 100G) for each fiber type.

Verdicts compare the computed total against typical values, not the maximum values, unless an override is supplied.`,
}

func Topics() []string {
	out := make([]string, 0, len(topics))
	for name := range topics {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func Text(topic string) (string, error) {
	text, ok := topics[strings.ToLower(strings.TrimSpace(topic))]
	if !ok {
		return "", fmt.Errorf("unknown explain topic %q (valid: %s)", topic, strings.Join(Topics(), ", "))
	}
	return text, nil
}
