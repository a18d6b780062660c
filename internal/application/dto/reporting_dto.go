package dto

import (
	"github.com/retainly/churn/internal/domain/port"
)

// Segment is one risk band's aggregate view.
type Segment struct {
	Segment        string  `json:"segment"`
	Count          int     `json:"count"`
	AvgProbability float64 `json:"avg_probability"`
}

// SegmentsResponse is the output DTO for the segments view.
type SegmentsResponse struct {
	Success  bool      `json:"success"`
	Segments []Segment `json:"segments"`
}

// DailyPrediction is one day's prediction count.
type DailyPrediction struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// DistributionBucket is one probability bucket's count.
type DistributionBucket struct {
	Probability float64 `json:"prob"`
	Count       int     `json:"count"`
}

// MetricsResponse is the output DTO for the metrics view.
type MetricsResponse struct {
	Success          bool                 `json:"success"`
	DailyPredictions []DailyPrediction    `json:"daily_predictions"`
	Distribution     []DistributionBucket `json:"distribution"`
}

// FromSegments maps repository read models to the response DTO.
func FromSegments(segments []port.RiskSegment) SegmentsResponse {
	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		out = append(out, Segment{
			Segment:        s.Segment,
			Count:          s.Count,
			AvgProbability: s.AvgProbability,
		})
	}
	return SegmentsResponse{Success: true, Segments: out}
}

// FromMetrics maps repository read models to the response DTO.
func FromMetrics(daily []port.DailyCount, dist []port.ProbabilityBucket) MetricsResponse {
	resp := MetricsResponse{
		Success:          true,
		DailyPredictions: make([]DailyPrediction, 0, len(daily)),
		Distribution:     make([]DistributionBucket, 0, len(dist)),
	}
	for _, d := range daily {
		resp.DailyPredictions = append(resp.DailyPredictions, DailyPrediction{
			Date:  d.Date.Format("2006-01-02"),
			Count: d.Count,
		})
	}
	for _, b := range dist {
		resp.Distribution = append(resp.Distribution, DistributionBucket{
			Probability: b.Probability,
			Count:       b.Count,
		})
	}
	return resp
}
