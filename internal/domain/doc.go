// Package domain holds the value types shared by the map providers, the
// dispatcher, and the transport adapters.
//
// # Coordinates
//
// Coordinates are WGS-84 decimal degrees. A coordinate is valid when latitude
// lies in [-90, 90] and longitude lies in [-180, 180]; both bounds are
// inclusive. Callers that decode untrusted input use [CoordinateInput] so a
// missing or non-numeric field is distinguishable from zero.
//
// # Errors
//
// Every client-caused failure is an [*InputError], which matches
// [ErrInvalidInput] under errors.Is. Transports map it to a 4xx status and
// everything else to a 5xx status.
//
// # Lookup Journal
//
// Successful lookups can be journaled as [LookupEvent] values. Event IDs are
// the operation name plus a truncated SHA-256 of operation|provider|query|time,
// so sinks can upsert with ON CONFLICT DO NOTHING.
package domain
