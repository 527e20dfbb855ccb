// Package provider defines the capability surface over external secret
// stores and the Factory that resolves CloudSecretProvider resources into
// authenticated clients.
//
// The Factory caches a client per provider for the authentication lifetime,
// drops it on authentication failure and bounds every call with a deadline.
// A call exceeding the deadline fails with a transient ProviderError.
package provider
