// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUnreachable,
//	    "site query failed",
//	    cause,
//	    map[string]interface{}{
//	        "address": addr,
//	        "port":    port,
//	    },
//	)
package errors
