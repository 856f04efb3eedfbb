package http

import (
	"context"

	"bbbcli/internal/services"
	"bbbcli/pkg/contracts/domain"
)

// DatasetServiceInterface defines the dataset operations served over HTTP
type DatasetServiceInterface interface {
	Deliveries(ctx context.Context, q services.DeliveryQuery) (services.DeliveryPage, error)
	Matches(ctx context.Context) ([]services.MatchInfo, error)
	Match(ctx context.Context, id int) (services.MatchInfo, error)
	Summary(ctx context.Context) (domain.DatasetSummary, error)
	Reload(ctx context.Context) (services.DatasetStatus, error)
	Status() services.DatasetStatus
}
