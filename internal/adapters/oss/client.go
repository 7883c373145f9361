// Package oss is the Growatt OSS monitoring API client.
package oss

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

	"plant-sync/internal/core/plants"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
)

// Config holds the OSS endpoint and credentials.
type Config struct {
	Host       string
	Username   string
	Password   string
	OSSURL     string
	GrowattURL string
	Timeout    time.Duration
	TokenTTL   time.Duration
}

// Client implements plants.MonitoringAPI against the OSS HTTP API.
type Client struct {
	cfg    Config
	host   string
	http   *http.Client
	tokens *CachedTokenProvider
	lg     zerolog.Logger
}

var _ plants.MonitoringAPI = (*Client)(nil)

// New builds a client; store may be nil for a process-local token cache.
func New(cfg Config, store TokenStore, lg zerolog.Logger) *Client {
	hc := cleanhttp.DefaultPooledClient()
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	c := &Client{
		cfg:  cfg,
		host: strings.TrimRight(cfg.Host, "/"),
		http: hc,
		lg:   lg.With().Str("adapter", "oss").Logger(),
	}
	c.tokens = NewCachedTokenProvider(c, store, cfg.TokenTTL, c.lg)
	return c
}

func (c *Client) endpoint(name string) string { return c.host + "/oss/" + name }

// GetAccessToken logs in and returns a fresh bearer token.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	body, err := json.Marshal(loginRequest{
		Username:   c.cfg.Username,
		Password:   c.cfg.Password,
		OSSURL:     c.cfg.OSSURL,
		GrowattURL: c.cfg.GrowattURL,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("login"), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: status %d", errAuthFailed, resp.StatusCode)
	}
	var lr loginResponse
	if err := decode(resp, &lr); err != nil {
		return "", err
	}
	if lr.Token == "" {
		return "", errNoToken
	}
	return lr.Token, nil
}

// authorized sends the request built by newReq with the bearer token. A 401 drops the
// token and retries once with a fresh login.
func (c *Client) authorized(ctx context.Context, newReq func() (*http.Request, error), out any) error {
	for attempt := 0; ; attempt++ {
		token, err := c.tokens.GetAccessToken(ctx)
		if err != nil {
			return fmt.Errorf("oss login: %w", err)
		}
		req, err := newReq()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			c.lg.Info().Str("url", req.URL.Path).Msg("token rejected, logging in again")
			c.tokens.InvalidateToken(ctx)
			continue
		}
		err = decode(resp, out)
		resp.Body.Close()
		return err
	}
}

func decode(resp *http.Response, out any) error {
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode, resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", resp.Request.URL.Path, err)
	}
	return nil
}

func (c *Client) search(ctx context.Context, serial string) ([]deviceData, error) {
	form := url.Values{}
	form.Set("serverID", "1")
	form.Set("type", "0")
	form.Set("deviceSN", serial)

	var sr searchResponse
	err := c.authorized(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("searchInverter"), strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, &sr)
	if err != nil {
		return nil, fmt.Errorf("search inverter %s: %w", serial, err)
	}
	if sr.Result != nil && *sr.Result != 1 {
		return nil, fmt.Errorf("%w: serial %s: result %d %s", errSearchFailed, serial, *sr.Result, sr.Msg)
	}
	if len(sr.Obj.Datas) == 0 {
		c.lg.Info().Str("serial", serial).Msg("no data found for the given serial number")
	}
	return sr.Obj.Datas, nil
}

// DevicesBySerial lists the devices the OSS reports for serial.
func (c *Client) DevicesBySerial(ctx context.Context, serial string) ([]plants.Device, error) {
	rows, err := c.search(ctx, serial)
	if err != nil {
		return nil, err
	}
	out := make([]plants.Device, 0, len(rows))
	for _, r := range rows {
		out = append(out, plants.Device{
			SerialNumber: strings.TrimSpace(r.SN),
			DeviceModel:  r.DeviceModel,
			Status:       r.Status.String(),
			DeviceType:   r.DeviceType.String(),
		})
	}
	return out, nil
}

// PlantInfo returns the plant metadata of the device row matching serial.
func (c *Client) PlantInfo(ctx context.Context, serial string) (plants.PlantInfo, error) {
	rows, err := c.search(ctx, serial)
	if err != nil {
		return plants.PlantInfo{}, err
	}
	if len(rows) == 0 {
		return plants.PlantInfo{}, nil
	}
	row := rows[0]
	for _, r := range rows {
		if strings.TrimSpace(r.SN) == serial {
			row = r
			break
		}
	}
	return plants.PlantInfo{
		PlantID:     row.PlantID.String(),
		AccountName: row.AccountName,
		PlantName:   row.PlantName,
	}, nil
}

// ActiveEquipment returns the live equipment snapshot of a plant.
func (c *Client) ActiveEquipment(ctx context.Context, plantID, accountName string) ([]plants.SnapshotEntry, error) {
	q := url.Values{}
	q.Set("accountName", accountName)
	q.Set("plantId", plantID)

	var ar activeResponse
	err := c.authorized(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("getActiveEquipaments")+"?"+q.Encode(), nil)
	}, &ar)
	if err != nil {
		return nil, fmt.Errorf("active equipment of plant %s: %w", plantID, err)
	}
	if len(ar.Data) == 0 {
		c.lg.Info().Str("plant_id", plantID).Msg("no active equipments found")
	}

	out := make([]plants.SnapshotEntry, 0, len(ar.Data))
	for _, e := range ar.Data {
		out = append(out, plants.SnapshotEntry{
			SerialNumber: strings.TrimSpace(e.SerialNumber),
			DeviceModel:  e.DeviceModel,
			Status:       e.Status.String(),
		})
	}
	return out, nil
}
