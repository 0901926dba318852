package core

import "fmt"

// ConfigurationError reports a missing or invalid setting detected
// before any connection is opened.
type ConfigurationError struct {
	Dataset string // data set or credentials entry name, may be empty
	Field   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = fmt.Sprintf("'%s' argument cannot be empty.", e.Field)
	}
	if e.Dataset != "" {
		return fmt.Sprintf("invalid configuration for %q: %s", e.Dataset, reason)
	}
	return reason
}

// ConnectionError carries the driver-level diagnostics of a failed
// connection attempt.
type ConnectionError struct {
	Code     int
	SQLState string
	Message  string
	QueryID  string
	Err      error
}

func (e *ConnectionError) Error() string {
	if e.Code == 0 && e.SQLState == "" {
		return fmt.Sprintf("failed to connect: %s", e.Message)
	}
	msg := fmt.Sprintf("failed to connect: error %d (%s): %s", e.Code, e.SQLState, e.Message)
	if e.QueryID != "" {
		msg += fmt.Sprintf(" (query id %s)", e.QueryID)
	}
	return msg
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ExecutionError reports a failed statement or bulk load.
// Statement is the zero-based index within a plan, or -1.
type ExecutionError struct {
	Op        string
	Statement int
	SQL       string
	Err       error
}

func (e *ExecutionError) Error() string {
	if e.SQL == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	if e.Statement >= 0 {
		return fmt.Sprintf("%s failed at statement %d (%s): %v", e.Op, e.Statement, e.SQL, e.Err)
	}
	return fmt.Sprintf("%s failed (%s): %v", e.Op, e.SQL, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
