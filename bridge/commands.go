package bridge

import (
	"context"
	"fmt"
	"net/url"
)

// RawInstance is an undecoded backend instance payload. Field names and
// casing vary by source; only the launcher normalizer may look inside one.
type RawInstance = map[string]any

// InstallRequest asks the backend to install a Minecraft version. The ID is
// client-generated so later progress/completion events correlate to the
// optimistic registry entry.
type InstallRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Version        string `json:"version"`
	Modpack        string `json:"modpack,omitempty"`
	ModpackVersion string `json:"modpackVersion,omitempty"`
}

// Account is a backend-managed player account.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Type     string `json:"type"` // "microsoft", "offline"
	Active   bool   `json:"active"`
}

// LoginTicket is returned when a device-code OAuth flow is started. The
// backend drives the flow; the frontend only shows the verification URL.
type LoginTicket struct {
	VerificationURL string `json:"verificationUrl"`
	UserCode        string `json:"userCode"`
}

// Server is a backend-managed (Docker) game server.
type Server struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Port    int    `json:"port"`
}

// ServerStatus is the polled liveness snapshot for one server.
type ServerStatus struct {
	ID      string `json:"id"`
	State   string `json:"state"` // "running", "stopped", "starting"
	Players int    `json:"players"`
	Uptime  int64  `json:"uptimeSeconds"`
}

// StoredInstances loads the backend-persisted instance list.
func (c *Client) StoredInstances(ctx context.Context) ([]RawInstance, error) {
	var out struct {
		Instances []RawInstance `json:"instances"`
	}
	if err := c.GetJSON(ctx, "/instances", &out); err != nil {
		return nil, fmt.Errorf("failed to load stored instances: %w", err)
	}
	return out.Instances, nil
}

// ExternalInstances enumerates installations belonging to other launchers.
func (c *Client) ExternalInstances(ctx context.Context) ([]RawInstance, error) {
	var out struct {
		Instances []RawInstance `json:"instances"`
	}
	if err := c.GetJSON(ctx, "/instances/external", &out); err != nil {
		return nil, fmt.Errorf("failed to detect external instances: %w", err)
	}
	return out.Instances, nil
}

// Install starts an asynchronous install; progress arrives on the event stream.
func (c *Client) Install(ctx context.Context, req InstallRequest) error {
	if err := c.PostJSON(ctx, "/instances", req, nil); err != nil {
		return fmt.Errorf("failed to request install of %q: %w", req.Name, err)
	}
	return nil
}

// Launch starts the game process for an instance.
func (c *Client) Launch(ctx context.Context, id string) error {
	if err := c.PostJSON(ctx, "/instances/"+url.PathEscape(id)+"/launch", nil, nil); err != nil {
		return fmt.Errorf("failed to launch instance %s: %w", id, err)
	}
	return nil
}

// Remove deletes a backend-managed instance and its files.
func (c *Client) Remove(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/instances/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("failed to delete instance %s: %w", id, err)
	}
	return nil
}

// OpenFolder asks the OS (via the backend) to open a directory.
func (c *Client) OpenFolder(ctx context.Context, path string) error {
	in := map[string]string{"path": path}
	if err := c.PostJSON(ctx, "/folders/open", in, nil); err != nil {
		return fmt.Errorf("failed to open folder %s: %w", path, err)
	}
	return nil
}

// Settings fetches the backend-persisted launcher settings.
func (c *Client) Settings(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.GetJSON(ctx, "/settings", &out); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return out, nil
}

// UpdateSettings writes changed settings keys back to the backend.
func (c *Client) UpdateSettings(ctx context.Context, settings map[string]any) error {
	if err := c.PutJSON(ctx, "/settings", settings); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

// Accounts lists the backend-managed player accounts.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var out struct {
		Accounts []Account `json:"accounts"`
	}
	if err := c.GetJSON(ctx, "/accounts", &out); err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return out.Accounts, nil
}

// BeginLogin starts a backend-driven OAuth device flow.
func (c *Client) BeginLogin(ctx context.Context) (LoginTicket, error) {
	var out LoginTicket
	if err := c.PostJSON(ctx, "/accounts/login", nil, &out); err != nil {
		return LoginTicket{}, fmt.Errorf("failed to begin login: %w", err)
	}
	return out, nil
}

// Servers lists backend-managed game servers.
func (c *Client) Servers(ctx context.Context) ([]Server, error) {
	var out struct {
		Servers []Server `json:"servers"`
	}
	if err := c.GetJSON(ctx, "/servers", &out); err != nil {
		return nil, fmt.Errorf("failed to load servers: %w", err)
	}
	return out.Servers, nil
}

// Status polls the current state of one server.
func (c *Client) Status(ctx context.Context, serverID string) (ServerStatus, error) {
	var out ServerStatus
	if err := c.GetJSON(ctx, "/servers/"+url.PathEscape(serverID)+"/status", &out); err != nil {
		return ServerStatus{}, fmt.Errorf("failed to poll server %s: %w", serverID, err)
	}
	return out, nil
}
