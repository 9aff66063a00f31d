package service

import (
	"context"

	"identity-api/internal/domain"
	"identity-api/internal/repository"
)

const forecastDays = 5

// WeatherService exposes the sample forecast resource.
type WeatherService interface {
	GetForecasts(ctx context.Context) ([]domain.WeatherForecast, error)
}

type weatherService struct {
	forecasts repository.WeatherForecastRepository
}

func NewWeatherService(forecasts repository.WeatherForecastRepository) WeatherService {
	return &weatherService{forecasts: forecasts}
}

func (s *weatherService) GetForecasts(ctx context.Context) ([]domain.WeatherForecast, error) {
	return s.forecasts.GetForecasts(ctx, forecastDays)
}
