// Package planner computes the ordered action plan of a CloudSecret from its
// canonical spec, the keys observed in the provider and the keys of the
// derived secret.
package planner
