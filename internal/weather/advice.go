package weather

// Thresholds for the farming tips.
const (
	humidFungalRisk = 80.0 // %
	hotIrrigation   = 32.0 // °C
	windySpraying   = 20.0 // km/h
	wetSpraying     = 0.5  // mm
)

// Advice derives short farming tips from current conditions.
func Advice(c Conditions, lang string) []string {
	en := lang == "en"
	var tips []string
	add := func(fr, english string) {
		if en {
			tips = append(tips, english)
			return
		}
		tips = append(tips, fr)
	}

	if c.Humidity >= humidFungalRisk {
		add("Humidité élevée : risque accru de maladies fongiques. Inspectez les feuilles et espacez les plants.",
			"High humidity: increased fungal disease risk. Inspect leaves and keep plants well spaced.")
	}
	if c.Temperature >= hotIrrigation {
		add("Forte chaleur : arrosez tôt le matin ou en fin de journée et paillez le sol.",
			"High heat: irrigate early morning or late evening and mulch the soil.")
	}
	if c.WindSpeed >= windySpraying || c.Precipitation >= wetSpraying {
		add("Évitez les pulvérisations aujourd'hui : le vent ou la pluie réduiront leur efficacité.",
			"Avoid spraying today: wind or rain will reduce its effectiveness.")
	}
	if len(tips) == 0 {
		add("Conditions favorables aux travaux des champs.",
			"Conditions are favourable for field work.")
	}
	return tips
}
