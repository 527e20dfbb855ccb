package aws

import (
	"context"
	"errors"
	"net"

	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"

	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
)

var authErrorCodes = map[string]bool{
	"AccessDeniedException":       true,
	"AccessDenied":                true,
	"UnrecognizedClientException": true,
	"InvalidClientTokenId":        true,
	"ExpiredToken":                true,
	"ExpiredTokenException":       true,
	"InvalidSignatureException":   true,
	"SignatureDoesNotMatch":       true,
	"IncompleteSignature":         true,
}

var transientErrorCodes = map[string]bool{
	"ThrottlingException":      true,
	"Throttling":               true,
	"TooManyRequestsException": true,
	"RequestLimitExceeded":     true,
	"InternalServiceError":     true,
	"InternalFailure":          true,
	"ServiceUnavailable":       true,
	"RequestTimeout":           true,
	"RequestTimeoutException":  true,
}

// handleError converts AWS errors to provider errors.
func (c *Client) handleError(err error, op string) error {
	pe := &cserrors.ProviderError{Provider: c.provider, Op: op, Err: err}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		pe.Unauthorized = authErrorCodes[code]
		pe.Temporary = transientErrorCodes[code] || apiErr.ErrorFault() == smithy.FaultServer
		return pe
	}

	var netErr net.Error
	var maxAttempts *retry.MaxAttemptsError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		pe.Temporary = true
	case errors.As(err, &netErr), errors.As(err, &maxAttempts):
		pe.Temporary = true
	}
	return pe
}

func isNotFoundError(err error) bool {
	var resourceNotFound *types.ResourceNotFoundException
	return errors.As(err, &resourceNotFound)
}
