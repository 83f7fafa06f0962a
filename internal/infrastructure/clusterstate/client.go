// Package clusterstate reads live cluster topology over HTTP and adapts
// it to the planner's gateway ports.
package clusterstate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
)

// Client is an HTTP-backed [domain.ClusterGateway] and
// [domain.SourceResolver]. Only BaseURL is required.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger
}

// ListServerGroups fetches every server group in the cluster. A cluster
// the service has never seen comes back as 404 and counts as empty.
func (c *Client) ListServerGroups(ctx context.Context, application, account, cluster, cloudProvider string) ([]domain.ServerGroup, error) {
	u := fmt.Sprintf("%s/applications/%s/clusters/%s/%s/serverGroups",
		strings.TrimRight(c.BaseURL, "/"),
		url.PathEscape(application),
		url.PathEscape(account),
		url.PathEscape(cluster))
	if cloudProvider != "" {
		u += "?cloudProvider=" + url.QueryEscape(cloudProvider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("query cluster state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.logger().DebugContext(ctx, "cluster unknown, treating as empty",
			"application", application, "account", account, "cluster", cluster)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cluster state returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var groups []domain.ServerGroup
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		return nil, fmt.Errorf("decode server groups: %w", err)
	}
	return groups, nil
}

// ResolveSource finds the group an in-place strategy should update. An
// explicit override on the request skips the lookup entirely.
func (c *Client) ResolveSource(ctx context.Context, req domain.DeployRequest) (domain.SourceServerGroup, error) {
	if req.Source != nil && req.Source.ServerGroupName != "" {
		return domain.ResolveSourceFromGroups(req, nil)
	}
	groups, err := c.ListServerGroups(ctx, req.Application, req.Account, req.Cluster, req.CloudProvider)
	if err != nil {
		return domain.SourceServerGroup{}, err
	}
	return domain.ResolveSourceFromGroups(req, groups)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
