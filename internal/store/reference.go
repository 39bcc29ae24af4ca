package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nyashahama/agrocamer-backend/internal/agronomy"
	"github.com/nyashahama/agrocamer-backend/internal/db"
)

// Reference fetches crops, diseases, treatments and market prices with four
// independent concurrent queries and assembles them into an
// agronomy.Reference. Nothing is cached; every call reads fresh rows.
func (s *Store) Reference(ctx context.Context) (agronomy.Reference, error) {
	var (
		crops      []db.Crop
		diseases   []db.Disease
		treatments []db.Treatment
		prices     []db.MarketPrice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		crops, err = s.q.ListCrops(gctx)
		if err != nil {
			return fmt.Errorf("list crops: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		diseases, err = s.q.ListDiseases(gctx)
		if err != nil {
			return fmt.Errorf("list diseases: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		treatments, err = s.q.ListTreatments(gctx)
		if err != nil {
			return fmt.Errorf("list treatments: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		prices, err = s.q.ListMarketPrices(gctx)
		if err != nil {
			return fmt.Errorf("list market prices: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return agronomy.Reference{}, fmt.Errorf("store: reference: %w", err)
	}

	return BuildReference(crops, diseases, treatments, prices), nil
}

// BuildReference maps database rows into the domain snapshot, joining
// treatments onto their diseases.
func BuildReference(crops []db.Crop, diseases []db.Disease, treatments []db.Treatment, prices []db.MarketPrice) agronomy.Reference {
	byDisease := make(map[uuid.UUID][]agronomy.Treatment, len(diseases))
	for _, t := range treatments {
		byDisease[t.DiseaseID] = append(byDisease[t.DiseaseID], agronomy.Treatment{
			Name:        t.Name,
			Type:        t.Type,
			Description: t.Description,
			Dosage:      t.Dosage.String,
		})
	}

	ref := agronomy.Reference{
		Crops:    make([]agronomy.Crop, 0, len(crops)),
		Diseases: make([]agronomy.Disease, 0, len(diseases)),
		Prices:   make([]agronomy.Price, 0, len(prices)),
	}
	for _, c := range crops {
		ref.Crops = append(ref.Crops, agronomy.Crop{
			ID:        c.ID.String(),
			Name:      c.Name,
			LocalName: c.LocalName.String,
		})
	}
	for _, d := range diseases {
		cropID := ""
		if d.CropID.Valid {
			cropID = d.CropID.UUID.String()
		}
		ref.Diseases = append(ref.Diseases, agronomy.Disease{
			ID:         d.ID.String(),
			CropID:     cropID,
			Name:       d.Name,
			LocalName:  d.LocalName.String,
			Symptoms:   d.Symptoms,
			Causes:     d.Causes,
			Treatments: byDisease[d.ID],
		})
	}
	for _, p := range prices {
		ref.Prices = append(ref.Prices, agronomy.Price{
			CropID:   p.CropID.String(),
			Grade:    p.Grade,
			Min:      p.MinPrice,
			Max:      p.MaxPrice,
			Currency: p.Currency,
			Unit:     p.Unit,
			Market:   p.Market.String,
		})
	}
	return ref
}
