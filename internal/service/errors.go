package service

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode categorizes link workflow failures.
type ErrorCode string

const (
	// CodeDuplicateSourceLink indicates the source objective already holds an outgoing link.
	CodeDuplicateSourceLink ErrorCode = "DUPLICATE_SOURCE_LINK"
	// CodeDuplicateLink indicates the same source and target are already linked or pending.
	CodeDuplicateLink ErrorCode = "DUPLICATE_LINK"
	// CodeInvalidSource indicates the source is not an objective.
	CodeInvalidSource ErrorCode = "INVALID_SOURCE"
	// CodeInvalidTarget indicates the target type is unknown or points back at the source.
	CodeInvalidTarget ErrorCode = "INVALID_TARGET"
	// CodeForbidden indicates the actor may not perform the transition.
	CodeForbidden ErrorCode = "FORBIDDEN"
	// CodeInvalidState indicates the transition is not allowed from the current status.
	CodeInvalidState ErrorCode = "INVALID_STATE"
	// CodeNotFound indicates a referenced link, objective, key result or user does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"
)

var grpcCodes = map[ErrorCode]codes.Code{
	CodeDuplicateSourceLink: codes.AlreadyExists,
	CodeDuplicateLink:       codes.AlreadyExists,
	CodeInvalidSource:       codes.InvalidArgument,
	CodeInvalidTarget:       codes.InvalidArgument,
	CodeForbidden:           codes.PermissionDenied,
	CodeInvalidState:        codes.FailedPrecondition,
	CodeNotFound:            codes.NotFound,
}

// LinkError is a user-facing failure of the link workflow. None of them are retried.
type LinkError struct {
	Code    ErrorCode
	Message string

	// ConflictTargetType and ConflictTargetID describe the existing link for duplicate errors.
	ConflictTargetType string
	ConflictTargetID   string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// GRPCStatus lets the gateway translate the error into an HTTP status.
func (e *LinkError) GRPCStatus() *status.Status {
	code, ok := grpcCodes[e.Code]
	if !ok {
		code = codes.Unknown
	}
	return status.New(code, e.Error())
}

// CodeOf returns the workflow error code carried by err.
func CodeOf(err error) (ErrorCode, bool) {
	var le *LinkError
	if errors.As(err, &le) {
		return le.Code, true
	}
	return "", false
}

func hasCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

func IsDuplicateSourceLink(err error) bool { return hasCode(err, CodeDuplicateSourceLink) }
func IsDuplicateLink(err error) bool       { return hasCode(err, CodeDuplicateLink) }
func IsInvalidSource(err error) bool       { return hasCode(err, CodeInvalidSource) }
func IsInvalidTarget(err error) bool       { return hasCode(err, CodeInvalidTarget) }
func IsForbidden(err error) bool           { return hasCode(err, CodeForbidden) }
func IsInvalidState(err error) bool        { return hasCode(err, CodeInvalidState) }
func IsNotFound(err error) bool            { return hasCode(err, CodeNotFound) }

func errDuplicateSourceLink(targetType, targetID string) error {
	return &LinkError{
		Code:               CodeDuplicateSourceLink,
		Message:            fmt.Sprintf("objective already has an active link to %s %s", targetType, targetID),
		ConflictTargetType: targetType,
		ConflictTargetID:   targetID,
	}
}

func errDuplicateLink(targetType, targetID string) error {
	return &LinkError{
		Code:               CodeDuplicateLink,
		Message:            fmt.Sprintf("a link to %s %s already exists", targetType, targetID),
		ConflictTargetType: targetType,
		ConflictTargetID:   targetID,
	}
}

func errInvalidSource(sourceType string) error {
	return &LinkError{
		Code:    CodeInvalidSource,
		Message: fmt.Sprintf("only objectives can request a link, got %q", sourceType),
	}
}

func errInvalidTarget(format string, args ...interface{}) error {
	return &LinkError{Code: CodeInvalidTarget, Message: fmt.Sprintf(format, args...)}
}

func errForbidden(format string, args ...interface{}) error {
	return &LinkError{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func errInvalidState(err error) error {
	return &LinkError{Code: CodeInvalidState, Message: err.Error()}
}

func errNotFound(entity, id string) error {
	return &LinkError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}
