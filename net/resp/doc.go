// Package resp writes the JSON envelopes used by the HTTP surface.
//
// Success bodies are the payload itself, or {"message": ...} for a string.
// Failure bodies share one shape:
//
//	{
//	  "code": 40001,
//	  "message": "operator: unsupported \"~~\"",
//	  "errors": {...}
//	}
//
// FromError maps ecode kinds to statuses: InvalidArgument is 400,
// NotConfigured is 503 and Transport is 502.
package resp
