// Package errors provides the classified error type used across refreshd.
//
// A ClassifiedError carries a category, a severity and a retry strategy so that
// callers (the scheduler, the admin API, the CLI) can decide how loudly to
// report a failure without string matching.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryNetwork, "model listing failed").
//		Retryable().
//		WithContext("base_url", baseURL).
//		Build()
package errors
