// Package messaging provides a broker-agnostic publisher abstraction.
//
// The service only emits domain events (it never consumes), so the surface is
// publish-only: a Publisher interface with NATS and Kafka implementations
// selected by driver name.
package messaging
