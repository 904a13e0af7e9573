package githubapi

import (
	"fmt"
)

const (
	listReleasesOperationNameConstant       = OperationName("ListReleases")
	deleteReleaseOperationNameConstant      = OperationName("DeleteRelease")
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	unexpectedStatusErrorTemplateConstant   = "%s returned unexpected status %d"
	invalidInputErrorTemplateConstant       = "%s: %s"
	paginationLimitErrorTemplateConstant    = "%s exceeded %d pages"
)

// OperationName identifies a GitHub API workflow performed by the repository.
type OperationName string

// OperationError wraps failures of GitHub API operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// UnexpectedStatusError reports a response that completed without the expected status.
type UnexpectedStatusError struct {
	Operation  OperationName
	StatusCode int
}

// Error describes the unexpected status.
func (statusError UnexpectedStatusError) Error() string {
	return fmt.Sprintf(unexpectedStatusErrorTemplateConstant, statusError.Operation, statusError.StatusCode)
}

// PaginationLimitError reports a listing that still had pages left after the page limit.
type PaginationLimitError struct {
	Operation OperationName
	PageLimit int
}

// Error describes the exceeded limit.
func (limitError PaginationLimitError) Error() string {
	return fmt.Sprintf(paginationLimitErrorTemplateConstant, limitError.Operation, limitError.PageLimit)
}

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}
