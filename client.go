package okr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	v1 "github.com/emrgen/okr/apis/v1"
)

// Client talks to the link REST API on behalf of one user.
type Client interface {
	RequestLink(ctx context.Context, req *v1.RequestLinkRequest) (*v1.Link, error)
	GetLink(ctx context.Context, id string) (*v1.GetLinkResponse, error)
	ListOutgoingLinks(ctx context.Context, objectiveID string) ([]*v1.Link, error)
	ListIncomingLinks(ctx context.Context, ownerID string, statuses []string) ([]*v1.Link, error)
	Approve(ctx context.Context, id, note string) (*v1.Link, error)
	Reject(ctx context.Context, id, note string) (*v1.Link, error)
	RequestChanges(ctx context.Context, id, note string) (*v1.Link, error)
	Resubmit(ctx context.Context, id, note string) (*v1.Link, error)
	Cancel(ctx context.Context, id, note string) (*v1.Link, error)
	Unlink(ctx context.Context, id string, req *v1.UnlinkRequest) (*v1.Link, error)
	ListNotifications(ctx context.Context, userID string) ([]*v1.Notification, error)
}

type client struct {
	baseURL string
	actorID string
	http    *http.Client
}

// NewClient creates a client for the server at addr, e.g. http://localhost:4021.
func NewClient(addr, actorID string) Client {
	return &client{
		baseURL: strings.TrimRight(addr, "/"),
		actorID: actorID,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *client) RequestLink(ctx context.Context, req *v1.RequestLinkRequest) (*v1.Link, error) {
	var res v1.LinkResponse
	if err := c.do(ctx, http.MethodPost, "/v1/links", req, &res); err != nil {
		return nil, err
	}
	return res.Link, nil
}

func (c *client) GetLink(ctx context.Context, id string) (*v1.GetLinkResponse, error) {
	var res v1.GetLinkResponse
	if err := c.do(ctx, http.MethodGet, "/v1/links/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) ListOutgoingLinks(ctx context.Context, objectiveID string) ([]*v1.Link, error) {
	var res v1.ListLinksResponse
	if err := c.do(ctx, http.MethodGet, "/v1/objectives/"+url.PathEscape(objectiveID)+"/links", nil, &res); err != nil {
		return nil, err
	}
	return res.Links, nil
}

func (c *client) ListIncomingLinks(ctx context.Context, ownerID string, statuses []string) ([]*v1.Link, error) {
	query := url.Values{}
	if ownerID != "" {
		query.Set("target_owner_id", ownerID)
	}
	if len(statuses) > 0 {
		query.Set("status", strings.Join(statuses, ","))
	}

	path := "/v1/links"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var res v1.ListLinksResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Links, nil
}

func (c *client) Approve(ctx context.Context, id, note string) (*v1.Link, error) {
	return c.decide(ctx, id, "approve", note)
}

func (c *client) Reject(ctx context.Context, id, note string) (*v1.Link, error) {
	return c.decide(ctx, id, "reject", note)
}

func (c *client) RequestChanges(ctx context.Context, id, note string) (*v1.Link, error) {
	return c.decide(ctx, id, "request-changes", note)
}

func (c *client) Resubmit(ctx context.Context, id, note string) (*v1.Link, error) {
	return c.decide(ctx, id, "resubmit", note)
}

func (c *client) Cancel(ctx context.Context, id, note string) (*v1.Link, error) {
	return c.decide(ctx, id, "cancel", note)
}

func (c *client) Unlink(ctx context.Context, id string, req *v1.UnlinkRequest) (*v1.Link, error) {
	var res v1.LinkResponse
	if err := c.do(ctx, http.MethodPost, "/v1/links/"+url.PathEscape(id)+"/unlink", req, &res); err != nil {
		return nil, err
	}
	return res.Link, nil
}

func (c *client) ListNotifications(ctx context.Context, userID string) ([]*v1.Notification, error) {
	var res v1.ListNotificationsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(userID)+"/notifications", nil, &res); err != nil {
		return nil, err
	}
	return res.Notifications, nil
}

func (c *client) decide(ctx context.Context, id, action, note string) (*v1.Link, error) {
	var res v1.LinkResponse
	if err := c.do(ctx, http.MethodPost, "/v1/links/"+url.PathEscape(id)+"/"+action, &v1.DecisionRequest{Note: note}, &res); err != nil {
		return nil, err
	}
	return res.Link, nil
}

// do sends the request and decodes the response into out. Non-2xx responses are returned
// as *v1.Error.
func (c *client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(v1.ActorHeader, c.actorID)

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &v1.Error{}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Code == "" {
			return fmt.Errorf("%s %s: %s", method, path, res.Status)
		}
		return apiErr
	}

	return json.Unmarshal(data, out)
}
