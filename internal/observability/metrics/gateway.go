package metrics

import (
	"context"

	"github.com/olharstudio/booking-assistant/internal/engine"
)

// InstrumentedGateway decorates a Gateway with booking outcome counters.
type InstrumentedGateway struct {
	engine.Gateway
	metrics *AssistantMetrics
}

// InstrumentGateway wraps gw so every Book call is counted by outcome.
func InstrumentGateway(gw engine.Gateway, m *AssistantMetrics) *InstrumentedGateway {
	return &InstrumentedGateway{Gateway: gw, metrics: m}
}

func (g *InstrumentedGateway) Book(ctx context.Context, req engine.BookingRequest) (engine.BookResult, error) {
	result, err := g.Gateway.Book(ctx, req)
	switch {
	case err != nil:
		g.metrics.ObserveBooking("error")
	case result == engine.BookBooked:
		g.metrics.ObserveBooking("booked")
	case result == engine.BookConflict:
		g.metrics.ObserveBooking("conflict")
	case result == engine.BookNotFound:
		g.metrics.ObserveBooking("not_found")
	}
	return result, err
}

var _ engine.Gateway = (*InstrumentedGateway)(nil)
