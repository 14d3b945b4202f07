package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 15 * time.Second

	// errorBodyLimit bounds how much of an error response is retained.
	errorBodyLimit = 4 << 10
)

// TokenProvider supplies the bearer token attached to every request.
// The auth provider behind it is opaque to this package.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider is a TokenProvider returning a fixed token,
// useful for tests and service-to-service calls.
type StaticTokenProvider string

// Token returns the fixed token.
func (s StaticTokenProvider) Token(context.Context) (string, error) {
	return string(s), nil
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client calls the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
}

// New creates a Client for the API at baseURL.
func New(baseURL string, tokens TokenProvider, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Schedules lists the user's meditation schedules.
func (c *Client) Schedules(ctx context.Context, userID string) ([]Schedule, error) {
	var out []Schedule
	err := c.get(ctx, "/api/v1/meditation/schedules?user_id="+url.QueryEscape(userID), &out)
	return out, err
}

// CreateSchedule creates a meditation schedule and returns the stored record.
func (c *Client) CreateSchedule(ctx context.Context, s Schedule) (Schedule, error) {
	var out Schedule
	err := c.send(ctx, http.MethodPost, "/api/v1/meditation/schedules", s, &out)
	return out, err
}

// UpdateSchedule replaces a schedule.
func (c *Client) UpdateSchedule(ctx context.Context, s Schedule) (Schedule, error) {
	var out Schedule
	err := c.send(ctx, http.MethodPut, "/api/v1/meditation/schedules/"+url.PathEscape(s.ID), s, &out)
	return out, err
}

// DeleteSchedule removes a schedule.
func (c *Client) DeleteSchedule(ctx context.Context, scheduleID string) error {
	return c.send(ctx, http.MethodDelete, "/api/v1/meditation/schedules/"+url.PathEscape(scheduleID), nil, nil)
}

// Sessions lists the user's meditation sessions.
func (c *Client) Sessions(ctx context.Context, userID string) ([]Session, error) {
	var out []Session
	err := c.get(ctx, "/api/v1/meditation/sessions?user_id="+url.QueryEscape(userID), &out)
	return out, err
}

// Conversations lists the user's chat threads.
func (c *Client) Conversations(ctx context.Context, userID string) ([]Conversation, error) {
	var out []Conversation
	err := c.get(ctx, "/api/v1/chat/conversations?user_id="+url.QueryEscape(userID), &out)
	return out, err
}

// CreateConversation starts a new chat thread.
func (c *Client) CreateConversation(ctx context.Context, conv Conversation) (Conversation, error) {
	var out Conversation
	err := c.send(ctx, http.MethodPost, "/api/v1/chat/conversations", conv, &out)
	return out, err
}

// Messages lists a conversation's messages, oldest first.
func (c *Client) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	var out []Message
	err := c.get(ctx, "/api/v1/chat/conversations/"+url.PathEscape(conversationID)+"/messages", &out)
	return out, err
}

// SendMessage appends a message and returns the stored record,
// including the assistant turn's audio URL once synthesized.
func (c *Client) SendMessage(ctx context.Context, m Message) (Message, error) {
	var out Message
	err := c.send(ctx, http.MethodPost, "/api/v1/chat/conversations/"+url.PathEscape(m.ConversationID)+"/messages", m, &out)
	return out, err
}

// Profile fetches the user's profile.
func (c *Client) Profile(ctx context.Context, userID string) (Profile, error) {
	var out Profile
	err := c.get(ctx, "/api/v1/users/"+url.PathEscape(userID)+"/profile", &out)
	return out, err
}

// UpdateProfile replaces the user's profile.
func (c *Client) UpdateProfile(ctx context.Context, p Profile) (Profile, error) {
	var out Profile
	err := c.send(ctx, http.MethodPut, "/api/v1/users/"+url.PathEscape(p.ID)+"/profile", p, &out)
	return out, err
}

// Health fetches the backend's self-reported health.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.get(ctx, "/api/v1/health", &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return errors.Join(ErrUnauthorized, err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}
