package scoring

import (
	"CapLens/internal/domain/models"
	domsvc "CapLens/internal/domain/service"
)

// Service exposes the scoring functions behind the domain Scorer interface.
type Service struct{}

func NewService() *Service { return &Service{} }

func (Service) RiskScore(c *models.Company) float64 { return RiskScore(c) }

func (Service) BaseConfidence(c *models.Company) float64 { return BaseConfidence(c) }

func (Service) HorizonConfidence(c *models.Company, years float64) float64 {
	return HorizonConfidence(c, years)
}

func (Service) ConfidenceReport(c *models.Company) models.ConfidenceReport {
	return ConfidenceReport(c)
}

func (Service) GrowthValueRatio(c *models.Company) float64 { return GrowthValueRatio(c) }

var _ domsvc.Scorer = (*Service)(nil)
