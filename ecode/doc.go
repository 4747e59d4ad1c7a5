// Package ecode defines the error kinds shared by query construction, the
// execution layer and the engine transports, plus short message helpers.
//
// Every error carries a Kind:
//
//	ecode.InvalidArgument // malformed clause, operator/value pair or sub-query
//	ecode.NotConfigured   // missing engine, transport or cache settings
//	ecode.Transport       // the engine or its client reported a failure
//
// Match a kind with errors.Is against the package sentinels:
//
//	if errors.Is(err, ecode.ErrInvalidArgument) {
//	    // reject the request
//	}
//
// Build errors with the helpers:
//
//	return ecode.Invalid("age", ecode.FieldIsInvalid("operator"))
//	return ecode.Wrap("search", err)
package ecode
