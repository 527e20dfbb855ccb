// Package admission provides chained defaulting and validating admission
// handlers. A Defaulter or Validator contributes a list of functions that are
// run in order against the decoded request object, with a check in advance
// to skip objects that need no processing.
package admission
