// Package domain contains the core entities of lokiship: log records, label
// canonicalization, stream grouping, and the size estimators that drive
// flush decisions.
//
// This is the innermost layer. It has no dependencies on transport, config,
// or logging and performs no I/O.
//
// # Entities
//
//   - [LogRecord]: One labeled log event plus its acknowledgment handles
//   - [LogEvent]: Timestamp, raw line bytes, tags, and attachment metadata
//   - [Labels]: Ordered label pairs; canonicalized for stream grouping
//   - [Batch]: Records grouped into label-addressed streams, ready to encode
//   - [Finalizers]: Acknowledgment handles owed back to the record producers
//
// # Design Principles
//
// Grouping and size estimation are pure transformations: they never fail,
// never block, and hold no state across calls, so independent batches can be
// built concurrently without locking.
package domain
