package domain

import "time"

// WeatherForecast is the sample read-only resource kept from the service
// template. It exists to exercise an unauthenticated endpoint end to end.
type WeatherForecast struct {
	Date         time.Time
	TemperatureC int
	Summary      string
}

// TemperatureF derives the Fahrenheit reading from the Celsius one.
func (f WeatherForecast) TemperatureF() int {
	return 32 + int(float64(f.TemperatureC)/0.5556)
}
