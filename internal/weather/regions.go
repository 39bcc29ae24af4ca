package weather

import (
	"math"
	"strings"
)

// Agro-ecological zones of Cameroon.
const (
	ZoneSudanoSahelian   = "sudano-sahelian"
	ZoneGuineaSavannah   = "high-guinea-savannah"
	ZoneWesternHighlands = "western-highlands"
	ZoneHumidMonomodal   = "humid-forest-monomodal"
	ZoneHumidBimodal     = "humid-forest-bimodal"
)

// highlandAltitude is the altitude above which a monomodal humid forest
// location is treated as highland.
const highlandAltitude = 1000

// Region is one of Cameroon's ten administrative regions with the reference
// city used when a client sends no coordinates.
type Region struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	NameFR      string  `json:"name_fr"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ClimateZone string  `json:"climate_zone"`
}

// Regions lists every region with its capital.
var Regions = []Region{
	{"AD", "Adamawa", "Adamaoua", "Ngaoundéré", 7.3277, 13.5847, ZoneGuineaSavannah},
	{"CE", "Centre", "Centre", "Yaoundé", 3.8480, 11.5021, ZoneHumidBimodal},
	{"ES", "East", "Est", "Bertoua", 4.5772, 13.6846, ZoneHumidBimodal},
	{"EN", "Far North", "Extrême-Nord", "Maroua", 10.5910, 14.3159, ZoneSudanoSahelian},
	{"LT", "Littoral", "Littoral", "Douala", 4.0511, 9.7679, ZoneHumidMonomodal},
	{"NO", "North", "Nord", "Garoua", 9.3017, 13.3921, ZoneSudanoSahelian},
	{"NW", "North-West", "Nord-Ouest", "Bamenda", 5.9631, 10.1591, ZoneWesternHighlands},
	{"OU", "West", "Ouest", "Bafoussam", 5.4778, 10.4176, ZoneWesternHighlands},
	{"SU", "South", "Sud", "Ebolowa", 2.9000, 11.1500, ZoneHumidBimodal},
	{"SW", "South-West", "Sud-Ouest", "Buea", 4.1527, 9.2410, ZoneHumidMonomodal},
}

// DefaultRegion is used when neither coordinates nor a known region name are
// supplied.
var DefaultRegion = Regions[1]

// Location is a resolved position with its region metadata.
type Location struct {
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Altitude    *float64 `json:"altitude,omitempty"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
	Region      string   `json:"region"`
	RegionCode  string   `json:"region_code"`
	City        string   `json:"city"`
	ClimateZone string   `json:"climate_zone"`
	Estimated   bool     `json:"estimated"` // true when the region's reference city was used
}

// Locate assigns coordinates to the region whose reference city is closest.
func Locate(lat, lon float64, altitude *float64) Location {
	best := Regions[0]
	bestDist := math.MaxFloat64
	for _, r := range Regions {
		if d := haversineKm(lat, lon, r.Latitude, r.Longitude); d < bestDist {
			best, bestDist = r, d
		}
	}

	zone := best.ClimateZone
	if altitude != nil && *altitude >= highlandAltitude && zone == ZoneHumidMonomodal {
		zone = ZoneWesternHighlands
	}

	return Location{
		Latitude:    lat,
		Longitude:   lon,
		Altitude:    altitude,
		Region:      best.Name,
		RegionCode:  best.Code,
		City:        best.City,
		ClimateZone: zone,
	}
}

// RegionByName resolves an English or French region name, or a region code.
// Matching ignores case, spaces, hyphens and accents on the common letters.
func RegionByName(name string) (Region, bool) {
	key := normalize(name)
	if key == "" {
		return Region{}, false
	}
	for _, r := range Regions {
		if key == normalize(r.Code) || key == normalize(r.Name) || key == normalize(r.NameFR) {
			return r, true
		}
	}
	return Region{}, false
}

// Fallback returns the reference-city location for a region.
func (r Region) Fallback() Location {
	return Location{
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Region:      r.Name,
		RegionCode:  r.Code,
		City:        r.City,
		ClimateZone: r.ClimateZone,
		Estimated:   true,
	}
}

var normalizer = strings.NewReplacer(
	" ", "", "-", "", "_", "",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
)

func normalize(s string) string {
	return normalizer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
