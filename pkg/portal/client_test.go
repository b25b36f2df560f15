package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, NewClient(server.URL, "test-token")
}

func TestListActiveAlarms(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/alarms/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("active_only") != "true" {
			t.Errorf("active_only missing, query = %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		// Naive UTC timestamps, as the backend stores them.
		w.Write([]byte(`[{
			"id": "a1",
			"title": "Revise algebra",
			"description": "chapter 4",
			"alarm_time": "2024-01-01T08:00:00",
			"is_active": true,
			"is_snoozed": false,
			"snooze_until": null,
			"is_recurring": false,
			"recurrence_pattern": null
		}]`))
	})

	alarms, err := client.ListActiveAlarms(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(alarms) != 1 {
		t.Fatalf("got %d alarms", len(alarms))
	}

	alarm := alarms[0]
	if alarm.ID != "a1" || alarm.Title != "Revise algebra" {
		t.Errorf("unexpected alarm: %+v", alarm)
	}
	want := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	if !alarm.AlarmTime.Time().Equal(want) {
		t.Errorf("AlarmTime = %s, want %s", alarm.AlarmTime.Time(), want)
	}
	if !alarm.SnoozeUntil.IsZero() {
		t.Errorf("SnoozeUntil = %s, want zero", alarm.SnoozeUntil.Time())
	}
}

func TestSnoozeAlarm(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/alarms/a1/snooze" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]int
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["snooze_minutes"] != 5 {
			t.Errorf("snooze_minutes = %d, want 5", body["snooze_minutes"])
		}
		w.Write([]byte(`{"id": "a1", "title": "Revise algebra", "alarm_time": "2024-01-01T08:00:00",
			"is_active": true, "is_snoozed": true, "snooze_until": "2024-01-01T08:05:00"}`))
	})

	alarm, err := client.SnoozeAlarm(context.Background(), "a1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !alarm.IsSnoozed {
		t.Error("alarm not snoozed in response")
	}
}

func TestDismissAlarm(t *testing.T) {
	var called bool
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/alarms/a1/dismiss" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"id": "a1", "title": "Revise algebra", "alarm_time": "2024-01-01T08:00:00", "is_active": false}`))
	})

	alarm, err := client.DismissAlarm(context.Background(), "a1")
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("dismiss endpoint not called")
	}
	if alarm.IsActive {
		t.Error("dismissed alarm still active")
	}
}

func TestUnreadCount(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/notifications/count" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"unread_count": 7}`))
	})

	count, err := client.UnreadCount(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}

func TestListUnreadNotifications(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("unread_only") != "true" || q.Get("per_page") != "10" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"id": "n1", "type": "assignment_due", "title": "Essay due",
			"message": "History essay due tomorrow", "is_read": false, "created_at": "2024-01-01T07:00:00"}]`))
	})

	notifications, err := client.ListUnreadNotifications(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(notifications) != 1 || notifications[0].Type != "assignment_due" {
		t.Errorf("unexpected notifications: %+v", notifications)
	}
}

func TestErrorDetailSurfaced(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Alarm not found"}`))
	})

	_, err := client.SnoozeAlarm(context.Background(), "nope", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Alarm not found") {
		t.Errorf("detail not surfaced: %v", err)
	}
}

func TestErrorWithoutDetail(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream exploded`))
	})

	_, err := client.ListActiveAlarms(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("status not surfaced: %v", err)
	}
}
