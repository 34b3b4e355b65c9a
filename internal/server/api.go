package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	v1 "github.com/emrgen/okr/apis/v1"
	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/module"
	"github.com/emrgen/okr/internal/service"
	"github.com/emrgen/okr/internal/workflow"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type handlerFunc func(ctx context.Context, actorID string, r *http.Request, params map[string]string, inbound runtime.Marshaler) (interface{}, error)

type route struct {
	method  string
	pattern string
	status  int
	handler handlerFunc
}

// LinkAPI exposes the link workflow over REST. Every route requires the X-User-ID header.
type LinkAPI struct {
	links *service.LinkService
	mux   *runtime.ServeMux
}

func NewLinkAPI(links *service.LinkService) *LinkAPI {
	return &LinkAPI{links: links}
}

func (a *LinkAPI) routes() []route {
	return []route{
		{http.MethodPost, "/v1/links", http.StatusCreated, a.requestLink},
		{http.MethodGet, "/v1/links", http.StatusOK, a.listIncoming},
		{http.MethodGet, "/v1/links/{id}", http.StatusOK, a.getLink},
		{http.MethodPost, "/v1/links/{id}/approve", http.StatusOK, a.decide(a.links.Approve)},
		{http.MethodPost, "/v1/links/{id}/reject", http.StatusOK, a.decide(a.links.Reject)},
		{http.MethodPost, "/v1/links/{id}/request-changes", http.StatusOK, a.decide(a.links.RequestChanges)},
		{http.MethodPost, "/v1/links/{id}/resubmit", http.StatusOK, a.decide(a.links.Resubmit)},
		{http.MethodPost, "/v1/links/{id}/cancel", http.StatusOK, a.decide(a.links.Cancel)},
		{http.MethodPost, "/v1/links/{id}/unlink", http.StatusOK, a.unlink},
		{http.MethodGet, "/v1/objectives/{id}/links", http.StatusOK, a.listOutgoing},
		{http.MethodGet, "/v1/users/{id}/notifications", http.StatusOK, a.listNotifications},
	}
}

// Register adds the link routes to the gateway mux.
func (a *LinkAPI) Register(mux *runtime.ServeMux) error {
	a.mux = mux
	for _, rt := range a.routes() {
		if err := mux.HandlePath(rt.method, rt.pattern, a.wrap(rt)); err != nil {
			return err
		}
	}
	return nil
}

func (a *LinkAPI) wrap(rt route) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		ctx := r.Context()
		inbound, outbound := runtime.MarshalerForRequest(a.mux, r)

		actorID, err := module.ActorFromRequest(r)
		if err != nil {
			runtime.HTTPError(ctx, a.mux, outbound, w, r, status.Error(codes.Unauthenticated, err.Error()))
			return
		}

		res, err := rt.handler(ctx, actorID, r, params, inbound)
		if err != nil {
			runtime.HTTPError(ctx, a.mux, outbound, w, r, err)
			return
		}

		writeResponse(w, outbound, rt.status, res)
	}
}

// decode reads a JSON body, an empty body leaves v untouched.
func decode(r *http.Request, inbound runtime.Marshaler, v interface{}) error {
	if err := inbound.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return status.Errorf(codes.InvalidArgument, "invalid request body: %v", err)
	}
	return nil
}

func (a *LinkAPI) requestLink(ctx context.Context, actorID string, r *http.Request, _ map[string]string, m runtime.Marshaler) (interface{}, error) {
	var req v1.RequestLinkRequest
	if err := decode(r, m, &req); err != nil {
		return nil, err
	}
	if req.SourceObjectiveID == "" || req.TargetID == "" {
		return nil, status.Error(codes.InvalidArgument, "source_objective_id and target_id are required")
	}

	link, err := a.links.RequestLink(ctx, actorID, service.RequestLinkInput{
		SourceType:        req.SourceType,
		SourceObjectiveID: req.SourceObjectiveID,
		TargetType:        req.TargetType,
		TargetID:          req.TargetID,
		Note:              req.Note,
	})
	if err != nil {
		return nil, err
	}

	return &v1.LinkResponse{Link: linkView(link)}, nil
}

func (a *LinkAPI) getLink(ctx context.Context, _ string, _ *http.Request, params map[string]string, _ runtime.Marshaler) (interface{}, error) {
	detail, err := a.links.GetLink(ctx, params["id"])
	if err != nil {
		return nil, err
	}

	return &v1.GetLinkResponse{Link: linkView(detail.Link), Events: eventViews(detail.Events)}, nil
}

type decisionFunc func(ctx context.Context, actorID, linkID, note string) (*model.OkrLink, error)

func (a *LinkAPI) decide(do decisionFunc) handlerFunc {
	return func(ctx context.Context, actorID string, r *http.Request, params map[string]string, m runtime.Marshaler) (interface{}, error) {
		var req v1.DecisionRequest
		if err := decode(r, m, &req); err != nil {
			return nil, err
		}

		link, err := do(ctx, actorID, params["id"], req.Note)
		if err != nil {
			return nil, err
		}

		return &v1.LinkResponse{Link: linkView(link)}, nil
	}
}

func (a *LinkAPI) unlink(ctx context.Context, actorID string, r *http.Request, params map[string]string, m runtime.Marshaler) (interface{}, error) {
	var req v1.UnlinkRequest
	if err := decode(r, m, &req); err != nil {
		return nil, err
	}

	link, err := a.links.Unlink(ctx, actorID, params["id"], service.UnlinkInput{
		Note:          req.Note,
		KeepOwnership: req.KeepOwnership,
	})
	if err != nil {
		return nil, err
	}

	return &v1.LinkResponse{Link: linkView(link)}, nil
}

func (a *LinkAPI) listOutgoing(ctx context.Context, _ string, _ *http.Request, params map[string]string, _ runtime.Marshaler) (interface{}, error) {
	links, err := a.links.ListOutgoingLinks(ctx, params["id"])
	if err != nil {
		return nil, err
	}

	return &v1.ListLinksResponse{Links: linkViews(links)}, nil
}

// listIncoming lists the links addressed to target_owner_id, which defaults to and must equal
// the actor. status takes a comma separated list.
func (a *LinkAPI) listIncoming(ctx context.Context, actorID string, r *http.Request, _ map[string]string, _ runtime.Marshaler) (interface{}, error) {
	query := r.URL.Query()

	ownerID := query.Get("target_owner_id")
	if ownerID == "" {
		ownerID = actorID
	}
	if ownerID != actorID {
		return nil, status.Error(codes.PermissionDenied, "incoming links are only visible to their target owner")
	}

	var statuses []workflow.Status
	for _, raw := range strings.Split(query.Get("status"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		s, ok := workflow.ParseStatus(raw)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "unknown status %q", raw)
		}
		statuses = append(statuses, s)
	}

	links, err := a.links.ListIncomingLinks(ctx, ownerID, statuses)
	if err != nil {
		return nil, err
	}

	return &v1.ListLinksResponse{Links: linkViews(links)}, nil
}

func (a *LinkAPI) listNotifications(ctx context.Context, actorID string, _ *http.Request, params map[string]string, _ runtime.Marshaler) (interface{}, error) {
	userID := params["id"]
	if userID != actorID {
		return nil, status.Error(codes.PermissionDenied, "notifications are only visible to their recipient")
	}

	notifications, err := a.links.ListNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &v1.ListNotificationsResponse{Notifications: notificationViews(notifications)}, nil
}
