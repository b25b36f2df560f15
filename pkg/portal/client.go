// Package portal is the REST client for the Penlet backend. It covers only
// what the companion needs: the signed-in user's alarms and notifications.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/penlet/reminders/pkg/models"
)

// Client talks to a Penlet API instance on behalf of one signed-in user.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given API base URL (scheme + host,
// with or without a trailing slash) and bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// apiError is the FastAPI error envelope: {"detail": "..."}.
type apiError struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("portal request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ae apiError
		if err := json.Unmarshal(respBody, &ae); err == nil && ae.Detail != "" {
			return fmt.Errorf("portal: %s %s: %s (%d)", method, path, ae.Detail, resp.StatusCode)
		}
		return fmt.Errorf("portal: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ListActiveAlarms fetches the user's alarms filtered to active only.
func (c *Client) ListActiveAlarms(ctx context.Context) ([]models.Alarm, error) {
	query := url.Values{"active_only": {"true"}}
	var alarms []models.Alarm
	if err := c.do(ctx, http.MethodGet, "/alarms/", query, nil, &alarms); err != nil {
		return nil, err
	}
	return alarms, nil
}

// TodayAlarms fetches the user's remaining alarms for today.
func (c *Client) TodayAlarms(ctx context.Context) ([]models.Alarm, error) {
	var alarms []models.Alarm
	if err := c.do(ctx, http.MethodGet, "/alarms/upcoming/today", nil, nil, &alarms); err != nil {
		return nil, err
	}
	return alarms, nil
}

// SnoozeAlarm asks the server to push the alarm's next eligible firing
// minutes into the future. Returns the updated alarm.
func (c *Client) SnoozeAlarm(ctx context.Context, id string, minutes int) (models.Alarm, error) {
	body := map[string]int{"snooze_minutes": minutes}
	var alarm models.Alarm
	if err := c.do(ctx, http.MethodPost, "/alarms/"+id+"/snooze", nil, body, &alarm); err != nil {
		return models.Alarm{}, err
	}
	return alarm, nil
}

// DismissAlarm marks the alarm permanently handled. Non-recurring alarms
// are deactivated server-side and drop out of the next active-only poll.
func (c *Client) DismissAlarm(ctx context.Context, id string) (models.Alarm, error) {
	var alarm models.Alarm
	if err := c.do(ctx, http.MethodPost, "/alarms/"+id+"/dismiss", nil, nil, &alarm); err != nil {
		return models.Alarm{}, err
	}
	return alarm, nil
}

// UnreadCount fetches the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications/count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

// ListUnreadNotifications fetches the most recent unread notifications.
func (c *Client) ListUnreadNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	query := url.Values{
		"unread_only": {"true"},
		"per_page":    {strconv.Itoa(limit)},
	}
	var notifications []models.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications/", query, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/notifications/"+id+"/read", nil, nil, nil)
}
