package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/oddsup/internal/client/models"
	"github.com/dmitrijs2005/oddsup/internal/common"
	"github.com/google/uuid"
)

// ClientConfig tunes the HTTP transport.
type ClientConfig struct {
	BaseURL             string
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	KeepAlive           time.Duration
	Headers             map[string]string
}

// DefaultConfig returns transport settings suitable for a mobile-style
// client talking to a single backend.
func DefaultConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:             baseURL,
		Timeout:             15 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		KeepAlive:           30 * time.Second,
		Headers:             make(map[string]string),
	}
}

// HTTPClient implements Client with JSON over HTTP(S).
// It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	headers map[string]string
	mu      sync.RWMutex
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(config ClientConfig) *HTTPClient {
	dialer := &net.Dialer{
		Timeout:   config.Timeout,
		KeepAlive: config.KeepAlive,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}

	headers := make(map[string]string, len(config.Headers))
	for k, v := range config.Headers {
		headers[k] = v
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		client:  &http.Client{Transport: transport, Timeout: config.Timeout},
		headers: headers,
	}
}

// SetHeader adds a header sent with every request.
func (c *HTTPClient) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[key] = value
}

// Close releases idle connections.
func (c *HTTPClient) Close() {
	type closeIdler interface {
		CloseIdleConnections()
	}
	if tr, ok := c.client.Transport.(closeIdler); ok {
		tr.CloseIdleConnections()
	}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Signup(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	var res SignupResult
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) FetchFriends(ctx context.Context) ([]models.Friend, error) {
	var res friendsResponse
	if err := c.do(ctx, http.MethodGet, "/friends", nil, &res); err != nil {
		return nil, err
	}
	return res.Friends, nil
}

func (c *HTTPClient) SendFriendRequest(ctx context.Context, target FriendTarget) error {
	return c.do(ctx, http.MethodPost, "/friends/requests", target, nil)
}

func (c *HTTPClient) AcceptFriendRequest(ctx context.Context, userID models.ID) error {
	return c.do(ctx, http.MethodPost, "/friends/requests/"+url.PathEscape(userID.String())+"/accept", nil, nil)
}

func (c *HTTPClient) DeclineFriendRequest(ctx context.Context, userID models.ID) error {
	return c.do(ctx, http.MethodPost, "/friends/requests/"+url.PathEscape(userID.String())+"/decline", nil, nil)
}

func (c *HTTPClient) RemoveFriend(ctx context.Context, userID models.ID) error {
	return c.do(ctx, http.MethodDelete, "/friends/"+url.PathEscape(userID.String()), nil, nil)
}

func (c *HTTPClient) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	q := url.Values{"q": {query}}
	var res searchResponse
	if err := c.do(ctx, http.MethodGet, "/users/search?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

func (c *HTTPClient) FetchLeaderboard(ctx context.Context, typ models.LeaderboardType, scope models.LeaderboardScope, limit int) ([]models.LeaderboardEntry, error) {
	q := url.Values{}
	if typ != "" {
		q.Set("type", string(typ))
	}
	if scope != "" {
		q.Set("scope", string(scope))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/leaderboard"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var res leaderboardResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Entries, nil
}

func (c *HTTPClient) FetchNotifications(ctx context.Context) (*models.NotificationList, error) {
	var res models.NotificationList
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// MarkNotificationsRead marks ids as read; nil or empty ids marks all.
func (c *HTTPClient) MarkNotificationsRead(ctx context.Context, ids []models.ID) error {
	req := markReadRequest{IDs: ids, All: len(ids) == 0}
	return c.do(ctx, http.MethodPost, "/notifications/read", req, nil)
}

func (c *HTTPClient) FetchUserStats(ctx context.Context, userID models.ID) (*models.UserStats, error) {
	var res models.UserStats
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID.String())+"/stats", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) FetchMarkets(ctx context.Context, category string) ([]models.Market, error) {
	path := "/markets"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var res marketsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Markets, nil
}

func (c *HTTPClient) PlaceBet(ctx context.Context, req models.BetRequest) (*models.Bet, error) {
	var res models.Bet
	if err := c.do(ctx, http.MethodPost, "/bets", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do performs one round trip. payload is JSON-encoded when non-nil;
// result is decoded from a 2xx body when non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return decodeError(fmt.Errorf("marshal payload: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return networkError(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	c.mu.RLock()
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	c.mu.RUnlock()

	if token, ok := TokenFromContext(ctx); ok {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(respBody)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: msg}
	}

	if result == nil {
		return nil
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return decodeError(fmt.Errorf("empty response body for %s %s", method, path))
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return decodeError(err)
	}
	return nil
}
