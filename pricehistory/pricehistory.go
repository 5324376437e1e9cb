package pricehistory

import (
	"context"
	"sort"

	"bestprice_client/api"
	"bestprice_client/models"
)

// Aggregator fetches an offer's price history on demand and derives trend
// statistics. Nothing is cached across offers.
type Aggregator struct {
	client *api.Client
}

func NewAggregator(client *api.Client) *Aggregator {
	return &Aggregator{client: client}
}

// Stats summarizes a price history. Percent fields are left zero when the
// first sampled price is zero.
type Stats struct {
	Min                float64
	Max                float64
	Average            float64
	TotalChange        float64
	TotalChangePercent float64
	Samples            int
}

// Delta is the change between one price point and the previous one.
// HasPrevious is false for the first point and whenever the previous price
// is zero; such steps have no comparison rather than being errors.
type Delta struct {
	Point       models.PricePoint
	Change      float64
	Percent     float64
	HasPrevious bool
}

// FetchHistory returns the offer's price points ordered oldest-first. The
// server has returned both orderings historically, so the aggregator sorts
// by fetched_at and treats ascending time as canonical: "first" is the
// oldest sample and "last" the newest.
func (a *Aggregator) FetchHistory(ctx context.Context, offerID int64) ([]models.PricePoint, error) {
	points, err := a.client.PriceHistory(ctx, offerID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].FetchedAt.Before(points[j].FetchedAt)
	})
	return points, nil
}

// ComputeStats derives min/max/average and the oldest-to-newest change.
// Returns false when the history is empty; an empty history is a distinct
// display state, not an error.
func ComputeStats(points []models.PricePoint) (Stats, bool) {
	if len(points) == 0 {
		return Stats{}, false
	}

	stats := Stats{
		Min:     points[0].Price,
		Max:     points[0].Price,
		Samples: len(points),
	}

	var sum float64
	for _, p := range points {
		if p.Price < stats.Min {
			stats.Min = p.Price
		}
		if p.Price > stats.Max {
			stats.Max = p.Price
		}
		sum += p.Price
	}
	stats.Average = sum / float64(len(points))

	first := points[0].Price
	last := points[len(points)-1].Price
	stats.TotalChange = last - first
	if first != 0 {
		stats.TotalChangePercent = stats.TotalChange / first * 100
	}

	return stats, true
}

// Deltas computes the pairwise change between consecutive points for the
// "price changed by X (Y%)" display.
func Deltas(points []models.PricePoint) []Delta {
	deltas := make([]Delta, 0, len(points))
	for i, p := range points {
		d := Delta{Point: p}
		if i > 0 && points[i-1].Price != 0 {
			prev := points[i-1].Price
			d.Change = p.Price - prev
			d.Percent = d.Change / prev * 100
			d.HasPrevious = true
		}
		deltas = append(deltas, d)
	}
	return deltas
}
