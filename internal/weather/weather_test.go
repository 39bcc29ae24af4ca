package weather_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/agrocamer-backend/internal/weather"
)

func TestClientCurrent(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current":{"time":"2026-03-14T13:00","temperature_2m":29.4,"relative_humidity_2m":84,"precipitation":0.2,"weather_code":61,"wind_speed_10m":7.5}}`))
	}))
	defer srv.Close()

	c := weather.NewClient(srv.URL+"/v1/", srv.Client())
	got, err := c.Current(context.Background(), 3.848, 11.5021, "en")
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "latitude=3.8480")
	assert.Contains(t, gotQuery, "current=temperature_2m")
	assert.Equal(t, 29.4, got.Temperature)
	assert.Equal(t, float64(84), got.Humidity)
	assert.Equal(t, 61, got.WeatherCode)
	assert.Equal(t, "Rain", got.Description)
	assert.Equal(t, 12, got.ObservedAt.UTC().Hour())
}

func TestClientCurrent_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":true,"reason":"Latitude must be in range"}`))
	}))
	defer srv.Close()

	_, err := weather.NewClient(srv.URL, srv.Client()).Current(context.Background(), 99, 0, "fr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Latitude must be in range")
}

func TestLocate_NearestReferenceCity(t *testing.T) {
	tests := []struct {
		name       string
		lat, lon   float64
		wantRegion string
		wantZone   string
	}{
		{"douala port", 4.04, 9.70, "Littoral", weather.ZoneHumidMonomodal},
		{"near bamenda", 6.0, 10.2, "North-West", weather.ZoneWesternHighlands},
		{"maroua", 10.6, 14.3, "Far North", weather.ZoneSudanoSahelian},
		{"outskirts of yaounde", 3.9, 11.55, "Centre", weather.ZoneHumidBimodal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := weather.Locate(tt.lat, tt.lon, nil)
			assert.Equal(t, tt.wantRegion, loc.Region)
			assert.Equal(t, tt.wantZone, loc.ClimateZone)
			assert.False(t, loc.Estimated)
		})
	}
}

func TestLocate_HighAltitudeIsHighland(t *testing.T) {
	alt := 1400.0
	loc := weather.Locate(4.2, 9.2, &alt)
	assert.Equal(t, "South-West", loc.Region)
	assert.Equal(t, weather.ZoneWesternHighlands, loc.ClimateZone)
}

func TestRegionByName(t *testing.T) {
	for _, name := range []string{"North-West", "nord-ouest", "NW", " north west "} {
		r, ok := weather.RegionByName(name)
		require.True(t, ok, name)
		assert.Equal(t, "Bamenda", r.City)
	}

	r, ok := weather.RegionByName("Extreme-Nord")
	require.True(t, ok)
	assert.Equal(t, "EN", r.Code)

	_, ok = weather.RegionByName("Atlantis")
	assert.False(t, ok)
	_, ok = weather.RegionByName("")
	assert.False(t, ok)
}

func TestRegionFallback(t *testing.T) {
	loc := weather.DefaultRegion.Fallback()
	assert.True(t, loc.Estimated)
	assert.Equal(t, "Yaoundé", loc.City)
}

func TestAdvice(t *testing.T) {
	humidHot := weather.Conditions{Temperature: 34, Humidity: 90, WindSpeed: 25, ObservedAt: time.Now()}
	assert.Len(t, weather.Advice(humidHot, "en"), 3)

	calm := weather.Conditions{Temperature: 24, Humidity: 60}
	assert.Equal(t, []string{"Conditions are favourable for field work."}, weather.Advice(calm, "en"))
	assert.Equal(t, []string{"Conditions favorables aux travaux des champs."}, weather.Advice(calm, "fr"))
}
