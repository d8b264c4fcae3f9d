package proto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestJSONCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())

	in := &UpdateElectionRequest{
		ElectionID: "e1",
		CreateElectionRequest: CreateElectionRequest{
			Title:   "Council",
			StartAt: time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC),
			EndAt:   time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC),
		},
	}
	data, err := c.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"election_id":"e1"`)
	assert.Contains(t, string(data), `"title":"Council"`)

	var out UpdateElectionRequest
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, *in, out)
}

func TestServiceDescCoversServerInterface(t *testing.T) {
	assert.Len(t, VotingService_ServiceDesc.Methods, 25)
	seen := map[string]bool{}
	for _, m := range VotingService_ServiceDesc.Methods {
		assert.False(t, seen[m.MethodName], m.MethodName)
		seen[m.MethodName] = true
		assert.NotNil(t, m.Handler)
	}
	for _, full := range []string{
		VotingService_UpdatePosition_FullMethodName,
		VotingService_UpdateCandidate_FullMethodName,
		VotingService_CreateTenant_FullMethodName,
		VotingService_CreateUser_FullMethodName,
		VotingService_CreateList_FullMethodName,
	} {
		name := full[len("/"+ServiceName+"/"):]
		assert.True(t, seen[name], name)
	}
}
