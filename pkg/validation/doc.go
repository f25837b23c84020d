// Package validation checks the answers of one wizard step and reports
// problems as field/message pairs with Russian user-facing messages.
//
// Typed value checks (number bounds, ISO dates, 12-digit IIN) and list
// cardinality checks are expressed as kin-openapi schemas and evaluated with
// Schema.VisitJSON. Hidden fields are skipped.
package validation
