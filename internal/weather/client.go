// Package weather fetches current conditions from Open-Meteo and maps
// coordinates onto Cameroon's regions and agro-ecological zones.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const currentFields = "temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m"

// Conditions is a normalized current-conditions observation.
type Conditions struct {
	Temperature   float64   `json:"temperature"`   // °C
	Humidity      float64   `json:"humidity"`      // %
	Precipitation float64   `json:"precipitation"` // mm
	WindSpeed     float64   `json:"wind_speed"`    // km/h
	WeatherCode   int       `json:"weather_code"`  // WMO
	Description   string    `json:"description"`
	ObservedAt    time.Time `json:"observed_at"`
}

// Client calls the Open-Meteo forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for baseURL (e.g. https://api.open-meteo.com/v1).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type forecastResponse struct {
	Current *struct {
		Time          string  `json:"time"`
		Temperature   float64 `json:"temperature_2m"`
		Humidity      float64 `json:"relative_humidity_2m"`
		Precipitation float64 `json:"precipitation"`
		WeatherCode   int     `json:"weather_code"`
		WindSpeed     float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Reason string `json:"reason"`
}

// Current fetches current conditions at lat/lon. Descriptions are written in
// lang ("fr" or "en").
func (c *Client) Current(ctx context.Context, lat, lon float64, lang string) (Conditions, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("current", currentFields)
	q.Set("timezone", "Africa/Douala")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather: http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Conditions{}, fmt.Errorf("weather: read body: %w", err)
	}

	var fr forecastResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return Conditions{}, fmt.Errorf("weather: decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Conditions{}, fmt.Errorf("weather: status %d: %s", resp.StatusCode, fr.Reason)
	}
	if fr.Current == nil {
		return Conditions{}, fmt.Errorf("weather: response has no current block")
	}

	cur := fr.Current
	observed, _ := time.ParseInLocation("2006-01-02T15:04", cur.Time, douala)

	return Conditions{
		Temperature:   cur.Temperature,
		Humidity:      cur.Humidity,
		Precipitation: cur.Precipitation,
		WindSpeed:     cur.WindSpeed,
		WeatherCode:   cur.WeatherCode,
		Description:   Describe(cur.WeatherCode, lang),
		ObservedAt:    observed,
	}, nil
}

// Cameroon is UTC+1 year round.
var douala = time.FixedZone("WAT", 3600)

// Describe returns a short description of a WMO weather code.
func Describe(code int, lang string) string {
	en := lang == "en"
	pick := func(fr, english string) string {
		if en {
			return english
		}
		return fr
	}

	switch {
	case code == 0:
		return pick("Ciel dégagé", "Clear sky")
	case code <= 3:
		return pick("Partiellement nuageux", "Partly cloudy")
	case code == 45 || code == 48:
		return pick("Brouillard", "Fog")
	case code >= 51 && code <= 57:
		return pick("Bruine", "Drizzle")
	case code >= 61 && code <= 67:
		return pick("Pluie", "Rain")
	case code >= 71 && code <= 77:
		return pick("Neige", "Snow")
	case code >= 80 && code <= 82:
		return pick("Averses", "Rain showers")
	case code >= 95:
		return pick("Orage", "Thunderstorm")
	default:
		return pick("Conditions variables", "Variable conditions")
	}
}
