package syncer

import (
	"errors"
	"fmt"

	"github.com/dgnsrekt/apisync/internal/postman"
)

const (
	CodeValidation        = "VALIDATION"
	CodeCredentialMissing = "CREDENTIAL_MISSING"
	CodeCredentialInvalid = "CREDENTIAL_INVALID"
	CodeRemoteFailed      = "REMOTE_FAILED"
	CodeNoMatchingRequest = "NO_MATCHING_REQUEST"
	CodeNoRequestsForHost = "NO_REQUESTS_FOR_HOST"
	CodeRequestNotFound   = "REQUEST_NOT_FOUND"
)

// CodedError is a typed error used for stable API mapping.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

// NewCodedError builds a typed failure with a stable code.
func NewCodedError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

func newError(code, msg string, cause error) error {
	return NewCodedError(code, msg, cause)
}

// remoteError classifies a failure from the collection store: a 401 becomes
// credential-invalid, anything else surfaces as a remote failure.
func remoteError(err error) error {
	if errors.Is(err, postman.ErrInvalidAPIKey) {
		return newError(CodeCredentialInvalid, "Postman API key was rejected", err)
	}
	return newError(CodeRemoteFailed, "collection store request failed", err)
}
