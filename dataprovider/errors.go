package dataprovider

import (
	"fmt"

	"github.com/crmarques/weddash/faults"
	"github.com/crmarques/weddash/session"
)

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}

func missingCredentialError() error {
	return faults.NewTypedError(faults.AuthError, "request requires an authenticated session", faults.ErrMissingCredential)
}

func unknownResourceError(resource string, role session.Role) error {
	roleName := role.String()
	if roleName == "" {
		roleName = "<none>"
	}
	return faults.NewTypedError(
		faults.NotFoundError,
		fmt.Sprintf("resource %q has no path for role %s", resource, roleName),
		faults.ErrUnknownResource,
	)
}

func unsupportedOperationError(operation Operation) error {
	message := "operation is not supported"
	if operation != "" {
		message = fmt.Sprintf("operation %q cannot be built as a single request", operation)
	}
	return faults.NewTypedError(faults.UnsupportedError, message, faults.ErrUnsupportedOperation)
}
