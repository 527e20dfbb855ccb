// Package action executes the create, rotate and validate actions of a key.
//
// A policy is a pattern, an external validator or byte length bounds. Values
// are checked against the validator or pattern first and the bounds last; the
// first failure wins. New values come from a Generator, or from the external
// validator when the policy names one.
package action
