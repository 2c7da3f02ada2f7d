// Package exceptions carries the coded error family shared by the gateway
// client, the pagination cache and the polling service. Codes are stable and
// surfaced to API consumers; messages are for operators.
package exceptions

import "fmt"

type CodedError struct {
	Code    int
	Message string
	// Detail is optional free-form context added at the failure site.
	Detail string
}

func (e *CodedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s (%s)", e.Code, e.Message, e.Detail)
}

// WithDetail returns a copy of the error with site-specific context. The
// base errors below stay comparable via errors.Is.
func (e *CodedError) WithDetail(detail string) *CodedError {
	return &CodedError{Code: e.Code, Message: e.Message, Detail: detail}
}

func (e *CodedError) Is(target error) bool {
	t, ok := target.(*CodedError)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidAddress = &CodedError{Code: 102, Message: "invalid safe address"}
	ErrSafeInfoLoad   = &CodedError{Code: 600, Message: "safe info could not be loaded"}
	ErrHistoryLoad    = &CodedError{Code: 602, Message: "history transactions could not be loaded"}
	ErrQueueLoad      = &CodedError{Code: 603, Message: "queued transactions could not be loaded"}
	ErrNoNextPage     = &CodedError{Code: 608, Message: "next page requested before a first page was fetched"}
)
