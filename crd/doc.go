// Package crd builds the CustomResourceDefinitions of the CloudSecret and
// CloudSecretProvider kinds. Both API versions are served and one of them is
// stored.
package crd
