// Package core implements the data-cleaning pipeline: header normalization,
// record coercion, import orchestration, and the in-memory application state
// the HTTP layer serves from. It has no UI dependencies and can be driven by
// any frontend.
//
// The pipeline is deliberately permissive. Malformed field values never fail
// an import; they are replaced with documented defaults and reported as
// coercion notes so callers can surface them as warnings. Strict validation
// is a separate concern, fed in as findings by an external collaborator.
package core
