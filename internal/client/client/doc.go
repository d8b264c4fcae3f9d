// Package client talks to the voting server on behalf of votectl.
//
// Client is the transport-agnostic contract the commands use; GRPCClient is
// the gRPC implementation. It injects the access token through a unary
// interceptor, speaks the JSON codec and maps gRPC status codes to the
// sentinel errors in errors.go so callers can use errors.Is.
package client
