package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"strive-tracker/internal/config"
	"strive-tracker/internal/domain"
	"strive-tracker/internal/wire"

	"github.com/valyala/fasthttp"
)

// GGSTClient talks to the game's statistics service. Replay listings come
// back as raw bytes for the wire decoder; only the profile endpoints
// carry JSON.
type GGSTClient struct {
	baseURL      string
	utilsBaseURL string
	client       *fasthttp.Client
}

func NewGGSTClient(cfg *config.Config) *GGSTClient {
	return &GGSTClient{
		baseURL:      cfg.BaseURL,
		utilsBaseURL: cfg.UtilsBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// GetReplayPage fetches one page of the replay catalog and returns the
// raw response body. The service ignores malformed queries silently, so
// errors here are transport level only.
func (c *GGSTClient) GetReplayPage(ctx context.Context, page int, minFloor, maxFloor domain.Floor) ([]byte, error) {
	url := fmt.Sprintf("%s/api/catalog/get_replay", c.baseURL)
	return c.doForm(ctx, url, wire.ReplayQuery(page, minFloor, maxFloor))
}

// GetUserID resolves a Steam id to the game's internal user id via the
// utils endpoint.
func (c *GGSTClient) GetUserID(ctx context.Context, steamID string) (string, error) {
	url := fmt.Sprintf("%s/%s.json", c.utilsBaseURL, steamID)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.do(ctx, req, resp); err != nil {
		return "", err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("user id lookup failed with status %d", resp.StatusCode())
	}

	var body struct {
		UserID string `json:"UserID"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("could not parse user id response: %w", err)
	}
	if body.UserID == "" {
		return "", fmt.Errorf("no user id found for steam id %s", steamID)
	}
	return body.UserID, nil
}

type UserStatsResponse struct {
	NickName      string `json:"NickName"`
	PublicComment string `json:"PublicComment"`
}

// GetUserStats fetches a profile from the statistics endpoint. The
// response body carries binary framing before the JSON document, so
// everything up to the first brace is dropped.
func (c *GGSTClient) GetUserStats(ctx context.Context, userID string) (*UserStatsResponse, error) {
	url := fmt.Sprintf("%s/api/statistics/get", c.baseURL)
	body, err := c.doForm(ctx, url, wire.StatsQuery(userID))
	if err != nil {
		return nil, err
	}

	i := bytes.IndexByte(body, '{')
	if i < 0 {
		return nil, fmt.Errorf("no JSON document in statistics response")
	}

	var stats UserStatsResponse
	if err := json.Unmarshal(body[i:], &stats); err != nil {
		return nil, fmt.Errorf("could not parse statistics response: %w", err)
	}
	return &stats, nil
}

// doForm POSTs a hex query payload as the service's single form field and
// returns a copy of the response body.
func (c *GGSTClient) doForm(ctx context.Context, url, query string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetUserAgent("Steam")
	req.Header.Set(fasthttp.HeaderCacheControl, "no-cache")
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBodyString("data=" + query)

	if err := c.do(ctx, req, resp); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode())
	}

	// The response buffer is pooled, copy before release.
	return append([]byte(nil), resp.Body()...), nil
}

func (c *GGSTClient) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.client.DoDeadline(req, resp, deadline)
	}
	return c.client.Do(req, resp)
}
