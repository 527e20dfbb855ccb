// Package cloudsecret implements the admission webhooks of the v1alpha2
// CloudSecret and CloudSecretProvider resources. Specs rejected here are the
// ones the reconcilers would report as InvalidConfiguration.
package cloudsecret
