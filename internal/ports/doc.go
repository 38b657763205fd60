// Package ports defines the interfaces that connect the sink core to the
// outside world.
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters implement them with concrete infrastructure: the ndjson record
// source, the HTTP push sender, the standard http.Client.
//
// # Port Interfaces
//
//   - [RecordSource]: Produces log records for the sink to ship
//   - [PushSender]: Delivers an encoded batch payload to the endpoint
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// Keeping these boundaries as interfaces lets the sink loop be tested with
// in-memory fakes and keeps the dependency direction pointing inward.
package ports
