package agronomy

import (
	"fmt"
	"strings"
)

// Caps on how many rows of each kind are rendered into a prompt.
const (
	maxContextCrops    = 60
	maxContextDiseases = 80
	maxContextPrices   = 60
)

// Context renders the reference rows as the text block appended to model
// prompts. It returns "" for an empty snapshot.
func (r Reference) Context() string {
	if r.Empty() {
		return ""
	}

	cropNames := make(map[string]string, len(r.Crops))
	for _, c := range r.Crops {
		cropNames[c.ID] = c.Name
	}

	var b strings.Builder
	b.WriteString("Reference data from the AgroCamer database (prefer these names when they match):")

	if len(r.Crops) > 0 {
		names := make([]string, 0, min(len(r.Crops), maxContextCrops))
		for _, c := range r.Crops[:min(len(r.Crops), maxContextCrops)] {
			names = append(names, withLocal(c.Name, c.LocalName))
		}
		b.WriteString("\nKnown crops: " + strings.Join(names, ", ") + ".")
	}

	if len(r.Diseases) > 0 {
		names := make([]string, 0, min(len(r.Diseases), maxContextDiseases))
		for _, d := range r.Diseases[:min(len(r.Diseases), maxContextDiseases)] {
			n := withLocal(d.Name, d.LocalName)
			if crop := cropNames[d.CropID]; crop != "" {
				n += " [" + crop + "]"
			}
			names = append(names, n)
		}
		b.WriteString("\nKnown diseases: " + strings.Join(names, ", ") + ".")
	}

	if len(r.Prices) > 0 {
		b.WriteString("\nCurrent market prices:")
		for _, p := range r.Prices[:min(len(r.Prices), maxContextPrices)] {
			crop := cropNames[p.CropID]
			if crop == "" {
				continue
			}
			fmt.Fprintf(&b, "\n- %s grade %s: %s-%s %s/%s",
				crop, p.Grade, formatAmount(p.Min), formatAmount(p.Max), p.Currency, p.Unit)
			if p.Market != "" {
				b.WriteString(" (" + p.Market + ")")
			}
		}
	}

	return b.String()
}

func withLocal(name, local string) string {
	if local == "" || strings.EqualFold(name, local) {
		return name
	}
	return name + " (" + local + ")"
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
