// Package common contains shared constants and sentinel errors used across
// the voting components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound and outbound requests.
const AccessTokenHeaderName = "access_token"

// GenesisHash seeds the vote chain of every election.
const GenesisHash = "genesis"
