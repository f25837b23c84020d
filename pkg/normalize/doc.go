// Package normalize rewrites legacy participant steps into the dual-mode
// input-mode shape. The same pass runs when a wizard starts and
// offline over a whole catalog (cmd/docwizard-migrate); both are idempotent.
package normalize
