// Package filter selects the creatures a dashboard shows.
//
// [Criteria] is the user-facing filter state shared by the CLI flags, the
// HTTP query string and the public API; [FromQuery] parses it and
// [Criteria.Query] writes it back. Criteria compile to a [Chain] of
// [Predicate]s: exact type descriptor, country, generation and an
// inclusive Total range. All predicates must match, unset criteria add no
// predicate, and filtering preserves row order.
package filter
