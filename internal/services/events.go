package services

// EventPublisher publishes domain events to the message broker. Services
// treat publishing as best-effort: a publish failure is logged, never
// surfaced to the caller, and a nil publisher disables publishing entirely.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Exchange carrying all marketplace events.
const EventExchange = "marketplace"

// Routing keys for published events.
const (
	EventOrderCreated     = "order.created"
	EventOrderCancelled   = "order.cancelled"
	EventProductModerated = "product.moderated"
)
