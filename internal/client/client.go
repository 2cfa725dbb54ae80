// Package client is the REST client of the actionfeed API. It backs the feed
// controller and the action executor in terminal front ends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	v1 "github.com/gosuda/actionfeed/internal/api/v1"
	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/members"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response, or a 200 mutation envelope that carries errors.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d detail=%s", e.StatusCode, e.Detail)
}

// Unwrap maps the status onto the domain sentinels so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	if strings.Contains(e.Detail, domain.MsgCompanyUserNotFound) {
		return domain.ErrCompanyUserNotFound
	}
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return nil
	}
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// Client talks to one actionfeed server. It is safe for concurrent use once
// configured.
type Client struct {
	root    string
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	root := strings.TrimRight(baseURL, "/")
	c := &Client{
		root:    root,
		baseURL: root + "/api/v1",
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session is the result of a sign-in.
type Session struct {
	AccessToken  string      `json:"access_token"`  //nolint:gosec // G117: auth response DTO
	RefreshToken string      `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	User         v1.UserView `json:"user"`
}

// Login signs in and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, companyID uuid.UUID, email, password string) (*Session, error) {
	body := map[string]any{"company_id": companyID, "email": email, "password": password}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &s); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	c.token = s.AccessToken
	return &s, nil
}

// ListActionItems implements feed.Backend.
func (c *Client) ListActionItems(ctx context.Context, q domain.ActionItemQuery) (*domain.ActionItemPage, error) {
	params, err := itemParams(q)
	if err != nil {
		return nil, fmt.Errorf("client.ListActionItems: %w", err)
	}

	var body v1.ActionItemsBody
	if err := c.do(ctx, http.MethodGet, "/action_items", params, nil, &body); err != nil {
		return nil, fmt.Errorf("client.ListActionItems: %w", err)
	}
	return &domain.ActionItemPage{Items: body.ActionItems, LastEvaluatedKey: body.LastEvaluatedKey}, nil
}

func itemParams(q domain.ActionItemQuery) (url.Values, error) {
	v := url.Values{}
	v.Set("company_id", q.CompanyID.String())
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Start > 0 {
		v.Set("start", strconv.FormatInt(q.Start, 10))
	}
	if q.End > 0 {
		v.Set("end", strconv.FormatInt(q.End, 10))
	}
	setIf(v, "priority", string(q.Priority))
	setIf(v, "search_key", q.SearchKey)
	setIf(v, "sort", string(q.Sort))
	setIf(v, "source", string(q.Source))
	setIf(v, "integration", q.IntegrationID)
	if len(q.ModuleTypes) > 0 {
		raw, err := json.Marshal(q.ModuleTypes)
		if err != nil {
			return nil, err
		}
		v.Set("module_type", string(raw))
	}
	if err := setCursor(v, q.After); err != nil {
		return nil, err
	}
	return v, nil
}

// LogQuery narrows ListLogs.
type LogQuery struct {
	CompanyID  uuid.UUID
	EntityType domain.EntityType
	SearchKey  string
	Limit      int
	After      *domain.Cursor
}

// ListLogs returns one page of the activity log, rendered by the server.
func (c *Client) ListLogs(ctx context.Context, q LogQuery) (*v1.LogsBody, error) {
	v := url.Values{}
	v.Set("company_id", q.CompanyID.String())
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	setIf(v, "entity_type", string(q.EntityType))
	setIf(v, "search_key", q.SearchKey)
	if err := setCursor(v, q.After); err != nil {
		return nil, fmt.Errorf("client.ListLogs: %w", err)
	}

	var body v1.LogsBody
	if err := c.do(ctx, http.MethodGet, "/logs", v, nil, &body); err != nil {
		return nil, fmt.Errorf("client.ListLogs: %w", err)
	}
	return &body, nil
}

// Summary returns the seat count and member count of the caller's company.
func (c *Client) Summary(ctx context.Context) (*members.Summary, error) {
	var s members.Summary
	if err := c.do(ctx, http.MethodGet, "/users/summary", nil, nil, &s); err != nil {
		return nil, fmt.Errorf("client.Summary: %w", err)
	}
	return &s, nil
}

// Users lists the members of the caller's company.
func (c *Client) Users(ctx context.Context) ([]v1.UserView, error) {
	var body struct {
		Users []v1.UserView `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &body); err != nil {
		return nil, fmt.Errorf("client.Users: %w", err)
	}
	return body.Users, nil
}

// DismissActionItem implements actions.Backend.
func (c *Client) DismissActionItem(ctx context.Context, _, itemID uuid.UUID) error {
	if err := c.mutate(ctx, http.MethodDelete, "/action_items/"+itemID.String(), nil, nil); err != nil {
		return fmt.Errorf("client.DismissActionItem: %w", err)
	}
	return nil
}

// RemoveUser implements actions.Backend.
func (c *Client) RemoveUser(ctx context.Context, companyID, userID uuid.UUID, removeIntegrationAccounts bool) error {
	v := url.Values{}
	v.Set("company_id", companyID.String())
	v.Set("remove_integration_accounts", strconv.FormatBool(removeIntegrationAccounts))
	if err := c.mutate(ctx, http.MethodDelete, "/users/"+userID.String(), v, nil); err != nil {
		return fmt.Errorf("client.RemoveUser: %w", err)
	}
	return nil
}

// RestoreUsers implements actions.Backend.
func (c *Client) RestoreUsers(ctx context.Context, companyID uuid.UUID, userIDs []uuid.UUID) error {
	body := map[string]any{"company_id": companyID.String(), "user_ids": slices.Clone(userIDs)}
	if err := c.mutate(ctx, http.MethodPost, "/users/restore", nil, body); err != nil {
		return fmt.Errorf("client.RestoreUsers: %w", err)
	}
	return nil
}

// ResendActivation implements actions.Backend.
func (c *Client) ResendActivation(ctx context.Context, userID uuid.UUID) error {
	v := url.Values{}
	v.Set("userId", userID.String())
	if err := c.mutate(ctx, http.MethodPut, "/resend_activation", v, nil); err != nil {
		return fmt.Errorf("client.ResendActivation: %w", err)
	}
	return nil
}

// mutate issues a mutation and turns an envelope carrying errors into an APIError.
func (c *Client) mutate(ctx context.Context, method, path string, params url.Values, body any) error {
	var env v1.MutationBody
	if err := c.do(ctx, method, path, params, body, &env); err != nil {
		return err
	}
	if len(env.Errors) > 0 {
		return &APIError{StatusCode: env.Status.Code, Detail: strings.Join(env.Errors, "; ")}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError reads an RFC 7807 problem body as written by huma.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	detail := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &problem) == nil {
		switch {
		case problem.Detail != "":
			detail = problem.Detail
		case problem.Title != "":
			detail = problem.Title
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}

func setIf(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}

func setCursor(v url.Values, c *domain.Cursor) error {
	if c.IsZero() {
		return nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	v.Set("last_evaluated_key", string(raw))
	return nil
}
