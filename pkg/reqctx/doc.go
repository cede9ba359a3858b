// Package reqctx holds request-scoped values: request metadata set by the
// HTTP middleware and the API-key principal set by the auth middleware.
//
// Context keys are unexported; use the With and FromContext helpers.
package reqctx
