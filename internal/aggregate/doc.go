// Package aggregate computes the figures shown on dashboards, category
// breakdowns and budget reports.
//
// Every function is a pure transformation over snapshots the caller has
// already fetched: inputs are never mutated and no state is kept between calls.
// Money is summed with shopspring/decimal so identities such as
// balance == income - expenses hold exactly.
package aggregate
