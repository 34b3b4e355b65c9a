package module

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

func TestActorFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/links", nil)
	_, err := ActorFromRequest(r)
	assert.ErrorIs(t, err, ErrMissingActor)

	r.Header.Set("X-User-ID", " u1 ")
	actor, err := ActorFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "u1", actor)
}

func TestActorFromContext(t *testing.T) {
	_, err := ActorFromContext(context.TODO())
	assert.ErrorIs(t, err, ErrMissingActor)

	ctx := metadata.NewIncomingContext(context.TODO(), metadata.Pairs("x-user-id", "u2"))
	actor, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u2", actor)
}
