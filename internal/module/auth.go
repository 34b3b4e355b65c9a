package module

import (
	"context"
	"errors"
	"net/http"
	"strings"

	v1 "github.com/emrgen/okr/apis/v1"
	"google.golang.org/grpc/metadata"
)

// ErrMissingActor is returned when a request does not name the acting user.
var ErrMissingActor = errors.New("missing " + v1.ActorHeader + " header")

// ActorFromRequest returns the acting user id of an HTTP request.
func ActorFromRequest(r *http.Request) (string, error) {
	actor := strings.TrimSpace(r.Header.Get(v1.ActorHeader))
	if actor == "" {
		return "", ErrMissingActor
	}
	return actor, nil
}

// ActorFromContext returns the acting user id of a gRPC call, the gateway forwards the
// header as lowercase metadata.
func ActorFromContext(ctx context.Context) (string, error) {
	headers, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", ErrMissingActor
	}

	val := headers.Get(strings.ToLower(v1.ActorHeader))
	if len(val) == 0 || strings.TrimSpace(val[0]) == "" {
		return "", ErrMissingActor
	}

	return strings.TrimSpace(val[0]), nil
}
