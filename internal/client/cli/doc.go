// Package cli implements votectl, the operator command line of the voting
// server.
//
// The command tree is built with cobra. Persistent flags override values
// loaded by the config package (defaults, JSON file, environment). Remote
// commands open one gRPC connection per invocation and apply the configured
// request timeout; keygen and token work offline.
package cli
