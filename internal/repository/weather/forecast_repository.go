package weather

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"identity-api/internal/domain"
	"identity-api/internal/repository"
)

var summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild",
	"Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

// ForecastRepository generates random forecasts, one per upcoming day.
type ForecastRepository struct {
	logger *logrus.Logger
}

func NewForecastRepository(logger *logrus.Logger) repository.WeatherForecastRepository {
	return &ForecastRepository{logger: logger}
}

func (r *ForecastRepository) GetForecasts(_ context.Context, days int) ([]domain.WeatherForecast, error) {
	r.logger.Debugf("generating %d weather forecasts", days)

	forecasts := make([]domain.WeatherForecast, days)
	for i := range forecasts {
		forecasts[i] = domain.WeatherForecast{
			Date:         time.Now().AddDate(0, 0, i+1),
			TemperatureC: rand.Intn(75) - 20,
			Summary:      summaries[rand.Intn(len(summaries))],
		}
	}
	return forecasts, nil
}
