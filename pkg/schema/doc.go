// Package schema defines the typed model of a document template: an ordered
// list of steps, each tagged with one of a closed set of step types, carrying
// fields, options, cardinality bounds, and a `next` successor rule.
//
// Decoding rejects unknown step and field types instead of carrying them as
// opaque strings, so every consumer can switch exhaustively over the enums.
package schema
