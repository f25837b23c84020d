// Package group manages repeated field groups: a list answer such as
// `trustors` whose elements are rendered from `trustors[].<field>` templates.
//
// A group's element count is either the stored list length (user adjustable
// between min and max) or derived from another numeric answer via
// dynamicCountFrom, clamped to the bounds. Removing an element compacts the
// list so indices stay contiguous, and writes the new count back to the
// dynamic source so the counter and the list agree.
package group
