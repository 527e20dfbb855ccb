// Package model contains the canonical, version independent representation of
// CloudSecret and CloudSecretProvider resources. Every served API version is
// converted into this model before the sync engine looks at it.
package model
