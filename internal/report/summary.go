package report

import (
	"math"

	"github.com/brandlens/brandlens/internal/model"
)

// Summarize computes aggregate label counts and percentages over the
// full result set. Percentages use the total processed count as the
// denominator and round to one decimal place.
func Summarize(results []model.ClassificationResult) *model.AnalysisSummary {
	s := &model.AnalysisSummary{
		TotalProcessed: len(results),
		BrandFile:      BrandFileName,
		NonBrandFile:   NonBrandFileName,
	}

	for _, r := range results {
		switch {
		case r.IsOfficialBrand:
			s.OfficialCount++
		case r.IsMatrixAccount:
			s.MatrixCount++
		case r.IsUGCCreator:
			s.UGCCount++
		}
		if r.BrandRelated() {
			s.BrandRelatedCount++
		} else {
			s.NonBrandCount++
		}
	}

	if s.TotalProcessed > 0 {
		total := float64(s.TotalProcessed)
		s.OfficialPercent = round1(float64(s.OfficialCount) / total * 100)
		s.MatrixPercent = round1(float64(s.MatrixCount) / total * 100)
		s.UGCPercent = round1(float64(s.UGCCount) / total * 100)
		s.NonBrandPercent = round1(float64(s.NonBrandCount) / total * 100)
	}
	return s
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
