// Package provider implements the reconciler of CloudSecretProvider
// resources. It verifies that the provider accepts the configured
// credentials and reports the outcome in the Ready condition.
package provider
