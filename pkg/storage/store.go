package storage

import (
	"context"

	"github.com/opscart/es3-estimator/pkg/models"
)

// Store defines the interface for persistent report storage
type Store interface {
	SaveReport(ctx context.Context, report *models.CostReport) (string, error)
	GetReport(ctx context.Context, id string) (*models.CostReport, error)
	ListReports(ctx context.Context, clusterID string, limit int) ([]*StoredReport, error)

	Ping(ctx context.Context) error
	Close() error
}

// StoredReport is a summary row for report history listings
type StoredReport struct {
	ID               string
	ClusterID        string
	GeneratedAt      string
	TotalMonthlyCost float64
	WorkloadProfile  string
}

type Config struct {
	URL     string
	Timeout int
}
