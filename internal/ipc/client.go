package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Fetch runs the fetch pipeline on the daemon.
func (c *Client) Fetch(apply bool) (*FetchResponse, error) {
	var resp FetchResponse
	if err := c.client.Call("Bingwall.Fetch", FetchRequest{Apply: apply}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Apply sets an already-downloaded file as the wallpaper.
func (c *Client) Apply(path string) error {
	var resp ApplyResponse
	return c.client.Call("Bingwall.Apply", ApplyRequest{Path: path}, &resp)
}

// GetConfig returns the daemon's configuration as a JSON document.
func (c *Client) GetConfig() (string, error) {
	var resp GetConfigResponse
	if err := c.client.Call("Bingwall.GetConfig", GetConfigRequest{}, &resp); err != nil {
		return "", err
	}
	return resp.JSON, nil
}

// GetMarket returns the configured market code.
func (c *Client) GetMarket() (string, error) {
	var resp GetMarketResponse
	if err := c.client.Call("Bingwall.GetMarket", GetMarketRequest{}, &resp); err != nil {
		return "", err
	}
	return resp.Market, nil
}

// SetMarket validates and persists a market code.
func (c *Client) SetMarket(market string) error {
	var resp SetMarketResponse
	return c.client.Call("Bingwall.SetMarket", SetMarketRequest{Market: market}, &resp)
}

// GetWallpaperDir returns the download directory.
func (c *Client) GetWallpaperDir() (string, error) {
	var resp GetWallpaperDirResponse
	if err := c.client.Call("Bingwall.GetWallpaperDir", GetWallpaperDirRequest{}, &resp); err != nil {
		return "", err
	}
	return resp.Dir, nil
}

// GetTimerEnabled reports whether scheduled fetching is on.
func (c *Client) GetTimerEnabled() (bool, error) {
	var resp GetTimerEnabledResponse
	if err := c.client.Call("Bingwall.GetTimerEnabled", GetTimerEnabledRequest{}, &resp); err != nil {
		return false, err
	}
	return resp.Enabled, nil
}

// SetTimerEnabled persists the scheduling flag.
func (c *Client) SetTimerEnabled(enabled bool) error {
	var resp SetTimerEnabledResponse
	return c.client.Call("Bingwall.SetTimerEnabled", SetTimerEnabledRequest{Enabled: enabled}, &resp)
}

// GetTimerNextRun returns the next scheduled run.
func (c *Client) GetTimerNextRun() (string, error) {
	var resp GetTimerNextRunResponse
	if err := c.client.Call("Bingwall.GetTimerNextRun", GetTimerNextRunRequest{}, &resp); err != nil {
		return "", err
	}
	return resp.NextRun, nil
}

// GetCurrentWallpaperPath returns the wallpaper on screen.
func (c *Client) GetCurrentWallpaperPath() (string, error) {
	var resp GetCurrentWallpaperPathResponse
	if err := c.client.Call("Bingwall.GetCurrentWallpaperPath", GetCurrentWallpaperPathRequest{}, &resp); err != nil {
		return "", err
	}
	return resp.Path, nil
}

// GetHistory lists downloaded wallpapers, newest first.
func (c *Client) GetHistory() (*GetHistoryResponse, error) {
	var resp GetHistoryResponse
	if err := c.client.Call("Bingwall.GetHistory", GetHistoryRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteWallpaper removes a downloaded wallpaper.
func (c *Client) DeleteWallpaper(path string) error {
	var resp DeleteWallpaperResponse
	return c.client.Call("Bingwall.DeleteWallpaper", DeleteWallpaperRequest{Path: path}, &resp)
}

// GetMarkets lists the built-in market table.
func (c *Client) GetMarkets() (*GetMarketsResponse, error) {
	var resp GetMarketsResponse
	if err := c.client.Call("Bingwall.GetMarkets", GetMarketsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon snapshot.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Bingwall.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Events drains buffered change notifications.
func (c *Client) Events(req EventsRequest) (*EventsResponse, error) {
	var resp EventsResponse
	if err := c.client.Call("Bingwall.Events", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Shutdown asks the daemon process to exit.
func (c *Client) Shutdown() (*ShutdownResponse, error) {
	var resp ShutdownResponse
	if err := c.client.Call("Bingwall.Shutdown", ShutdownRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
