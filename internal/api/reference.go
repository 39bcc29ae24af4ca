package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nyashahama/agrocamer-backend/internal/agronomy"
)

// ─── GET /api/crops ───────────────────────────────────────────────────────────

type cropResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LocalName string `json:"local_name,omitempty"`
	Category  string `json:"category,omitempty"`
}

func (s *Server) handleListCrops(w http.ResponseWriter, r *http.Request) {
	rows, err := s.q.ListCrops(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, agronomy.French, fmt.Errorf("list crops: %w", err))
		return
	}

	out := make([]cropResponse, len(rows))
	for i, c := range rows {
		out[i] = cropResponse{
			ID:        c.ID.String(),
			Name:      c.Name,
			LocalName: c.LocalName.String,
			Category:  c.Category.String,
		}
	}
	respond(w, http.StatusOK, map[string]any{"crops": out})
}

// ─── GET /api/diseases ────────────────────────────────────────────────────────

type diseaseResponse struct {
	ID         string               `json:"id"`
	CropID     string               `json:"crop_id,omitempty"`
	Name       string               `json:"name"`
	LocalName  string               `json:"local_name,omitempty"`
	Symptoms   []string             `json:"symptoms"`
	Causes     []string             `json:"causes"`
	Treatments []agronomy.Treatment `json:"treatments"`
}

// handleListDiseases lists diseases with their treatments joined.
func (s *Server) handleListDiseases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	diseases, err := s.q.ListDiseases(ctx)
	if err != nil {
		s.respondInternalErr(w, r, agronomy.French, fmt.Errorf("list diseases: %w", err))
		return
	}
	treatments, err := s.q.ListTreatments(ctx)
	if err != nil {
		s.respondInternalErr(w, r, agronomy.French, fmt.Errorf("list treatments: %w", err))
		return
	}

	byDisease := make(map[uuid.UUID][]agronomy.Treatment)
	for _, t := range treatments {
		byDisease[t.DiseaseID] = append(byDisease[t.DiseaseID], agronomy.Treatment{
			Name:        t.Name,
			Type:        t.Type,
			Description: t.Description,
			Dosage:      t.Dosage.String,
		})
	}

	out := make([]diseaseResponse, len(diseases))
	for i, d := range diseases {
		resp := diseaseResponse{
			ID:         d.ID.String(),
			Name:       d.Name,
			LocalName:  d.LocalName.String,
			Symptoms:   nonNilStrings(d.Symptoms),
			Causes:     nonNilStrings(d.Causes),
			Treatments: byDisease[d.ID],
		}
		if d.CropID.Valid {
			resp.CropID = d.CropID.UUID.String()
		}
		if resp.Treatments == nil {
			resp.Treatments = []agronomy.Treatment{}
		}
		out[i] = resp
	}
	respond(w, http.StatusOK, map[string]any{"diseases": out})
}

// ─── GET /api/market-prices ───────────────────────────────────────────────────

type marketPriceResponse struct {
	CropID     string    `json:"crop_id"`
	Grade      string    `json:"grade"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	Currency   string    `json:"currency"`
	Unit       string    `json:"unit"`
	Market     string    `json:"market,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// handleListMarketPrices lists the latest price per crop and grade.
func (s *Server) handleListMarketPrices(w http.ResponseWriter, r *http.Request) {
	rows, err := s.q.ListMarketPrices(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, agronomy.French, fmt.Errorf("list market prices: %w", err))
		return
	}

	out := make([]marketPriceResponse, len(rows))
	for i, p := range rows {
		out[i] = marketPriceResponse{
			CropID:     p.CropID.String(),
			Grade:      p.Grade,
			Min:        p.MinPrice,
			Max:        p.MaxPrice,
			Currency:   p.Currency,
			Unit:       p.Unit,
			Market:     p.Market.String,
			RecordedAt: p.RecordedAt,
		}
	}
	respond(w, http.StatusOK, map[string]any{"market_prices": out})
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
