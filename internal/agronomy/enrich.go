package agronomy

import (
	"slices"
	"strings"
)

// EnrichPlant overwrites model guesses in a plant analysis with matching
// reference rows. A crop match fills a missing local crop name. A disease
// match replaces symptoms, causes and treatments with the database row and
// sets FromDatabase. Without a match the analysis is returned unchanged.
//
// a is never mutated; replaced slices are copies of the reference rows.
func EnrichPlant(a PlantAnalysis, ref Reference) PlantAnalysis {
	out := a

	crop, cropFound := findCrop(ref.Crops, a.DetectedCrop, a.DetectedCropLocal)
	if cropFound && out.DetectedCropLocal == "" && crop.LocalName != "" {
		out.DetectedCropLocal = crop.LocalName
	}

	if a.IsHealthy {
		return out
	}

	cropID := ""
	if cropFound {
		cropID = crop.ID
	}
	d, ok := findDisease(ref.Diseases, cropID, a.DiseaseName, a.DiseaseNameLocal)
	if !ok {
		return out
	}

	if len(d.Symptoms) > 0 {
		out.Symptoms = slices.Clone(d.Symptoms)
	}
	if len(d.Causes) > 0 {
		out.Causes = slices.Clone(d.Causes)
	}
	if len(d.Treatments) > 0 {
		out.Treatments = slices.Clone(d.Treatments)
	}
	if out.DiseaseNameLocal == "" && d.LocalName != "" {
		out.DiseaseNameLocal = d.LocalName
	}
	out.FromDatabase = true
	return out
}

// EnrichHarvest fills a missing local crop name and, when a market price
// exists for the matched crop and grade, replaces the model's estimate with
// it and sets FromDatabase.
func EnrichHarvest(h HarvestAnalysis, ref Reference) HarvestAnalysis {
	out := h

	crop, ok := findCrop(ref.Crops, h.DetectedCrop, h.DetectedCropLocal)
	if !ok {
		return out
	}
	if out.DetectedCropLocal == "" && crop.LocalName != "" {
		out.DetectedCropLocal = crop.LocalName
	}

	for _, p := range ref.Prices {
		if p.CropID != crop.ID || !strings.EqualFold(strings.TrimSpace(p.Grade), h.Grade) {
			continue
		}
		out.EstimatedPrice = PriceEstimate{
			Min:      p.Min,
			Max:      p.Max,
			Currency: p.Currency,
			Unit:     p.Unit,
			Market:   p.Market,
		}
		out.FromDatabase = true
		break
	}
	return out
}

// findCrop matches the model's crop name, then its local name, against every
// crop's name and local name.
func findCrop(crops []Crop, names ...string) (Crop, bool) {
	for _, n := range names {
		for _, c := range crops {
			if fuzzyMatch(n, c.Name) || fuzzyMatch(n, c.LocalName) {
				return c, true
			}
		}
	}
	return Crop{}, false
}

// findDisease searches diseases of cropID first, then every disease.
func findDisease(diseases []Disease, cropID string, names ...string) (Disease, bool) {
	match := func(d Disease) bool {
		for _, n := range names {
			if fuzzyMatch(n, d.Name) || fuzzyMatch(n, d.LocalName) {
				return true
			}
		}
		return false
	}

	if cropID != "" {
		for _, d := range diseases {
			if d.CropID == cropID && match(d) {
				return d, true
			}
		}
	}
	for _, d := range diseases {
		if match(d) {
			return d, true
		}
	}
	return Disease{}, false
}

// fuzzyMatch is a case-insensitive substring match in either direction.
// Blank strings never match.
func fuzzyMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
