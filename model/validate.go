package model

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/go-multierror"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
)

// CompilePattern compiles a pattern for a full match of the value.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)$`)
}

// Validate checks the resource for configuration errors. The returned error,
// if any, aggregates one ConfigError per problem.
func Validate(r *SecretResource) error {
	var result *multierror.Error

	if r.SourceName == "" {
		result = multierror.Append(result, cserrors.NewConfigError("source.name", "must be set"))
	}
	if err := validateInterval("refreshInterval", r.RefreshInterval.OrDefault(DefaultRefreshInterval)); err != nil {
		result = multierror.Append(result, err)
	}
	if err := validateActions("actions", r.Actions); err != nil {
		result = multierror.Append(result, err)
	}

	targets := map[string]int{}
	for i, k := range r.Keys {
		field := fmt.Sprintf("keys[%d]", i)
		if k.Source == "" {
			result = multierror.Append(result, cserrors.NewConfigError(field+".name", "must be set"))
		}
		if prev, ok := targets[k.TargetName()]; ok {
			result = multierror.Append(result, cserrors.NewConfigError(field, "target %q already used by keys[%d]", k.TargetName(), prev))
		} else {
			targets[k.TargetName()] = i
		}
		if k.RotateInterval != "" {
			if err := validateInterval(field+".rotateInterval", k.RotateInterval); err != nil {
				result = multierror.Append(result, err)
			}
		}
		if err := validateActions(field+".actions", k.Actions); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// ValidateProvider checks the provider for configuration errors.
func ValidateProvider(p *ProviderResource) error {
	switch p.Kind {
	case ProviderKindAWSSecretsManager:
		if p.Region == "" {
			return cserrors.NewConfigError("provider.awsSecretsManager.region", "must be set")
		}
		if p.Auth != nil && (p.Auth.RoleARN == "") != (p.Auth.ServiceAccountName == "") {
			return cserrors.NewConfigError("provider.awsSecretsManager.auth.irsa", "service account and role ARN must be set together")
		}
	default:
		return cserrors.NewConfigError("provider", "no supported provider configured")
	}
	return nil
}

func validateInterval(field string, i Interval) error {
	d, err := i.Duration()
	if err != nil {
		return cserrors.NewConfigError(field, "%v", err)
	}
	if d <= 0 {
		return cserrors.NewConfigError(field, "must be greater than zero")
	}
	return nil
}

func validateActions(field string, a *ActionsSpec) error {
	if a == nil {
		return nil
	}
	var result *multierror.Error
	for _, p := range []struct {
		phase Phase
		spec  *ActionSpec
	}{
		{PhaseCreate, a.Create},
		{PhaseRotate, a.Rotate},
		{PhaseValidate, a.Validate},
	} {
		if err := validateAction(field+"."+string(p.phase), p.spec); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func validateAction(field string, a *ActionSpec) error {
	if a == nil {
		return nil
	}
	if a.Minimum != nil && *a.Minimum < 0 {
		return cserrors.NewConfigError(field+".minimum", "must not be negative")
	}
	if a.Maximum != nil && *a.Maximum < 1 {
		return cserrors.NewConfigError(field+".maximum", "must be at least 1")
	}
	if a.Minimum != nil && a.Maximum != nil && *a.Minimum > *a.Maximum {
		return cserrors.NewConfigError(field, "minimum %d is greater than maximum %d", *a.Minimum, *a.Maximum)
	}
	if a.Pattern != nil {
		if _, err := CompilePattern(*a.Pattern); err != nil {
			return cserrors.NewConfigError(field+".pattern", "%v", err)
		}
	}
	if a.Validator != nil && a.Validator.Image == "" {
		return cserrors.NewConfigError(field+".container.image", "must be set")
	}
	return nil
}
