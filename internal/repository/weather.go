package repository

import (
	"context"

	"identity-api/internal/domain"
)

// WeatherForecastRepository produces forecast records for the sample endpoint.
type WeatherForecastRepository interface {
	GetForecasts(ctx context.Context, days int) ([]domain.WeatherForecast, error)
}
