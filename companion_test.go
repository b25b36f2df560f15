package main

import (
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/penlet/reminders/pkg/models"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short unchanged", "Maths", 10, "Maths"},
		{"exact length unchanged", "Maths", 5, "Maths"},
		{"ascii truncated", "Mathematics lecture", 10, "Mathema..."},
		{"multibyte kept intact", "Ünïcödé", 7, "Ünïcödé"},
		{"multibyte truncated on rune boundary", "Révision contrôle continu", 12, "Révision ..."},
		{"cjk truncated", "数学の授業があります", 8, "数学の授業..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateString(tt.in, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateString produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestUpcomingClassesSortsAndLimits(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	day := func(h, m int) time.Time {
		return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	}

	classes := []models.Class{
		{ID: "c3", Subject: "Physics", StartTime: day(16, 0)},
		{ID: "c1", Subject: "Maths", StartTime: day(13, 0)},
		{ID: "past", Subject: "History", StartTime: day(9, 0)},
		{ID: "c2", Subject: "Chemistry", StartTime: day(14, 30)},
		{ID: "tomorrow", Subject: "Biology", StartTime: day(13, 0).Add(24 * time.Hour)},
	}

	got := upcomingClasses(classes, now, 2)
	if len(got) != 2 {
		t.Fatalf("got %d classes, want 2", len(got))
	}
	if got[0].ID != "c1" || got[1].ID != "c2" {
		t.Errorf("wrong order: %s, %s", got[0].ID, got[1].ID)
	}
}

// Settings saves swap the config pointer while background loops read it;
// both must go through the mutex so the swap is race-free.
func TestConfigSwapConcurrent(t *testing.T) {
	c := &Companion{config: &models.Config{SnoozeMinutes: 5}}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.setConfig(&models.Config{SnoozeMinutes: n + j})
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if cfg := c.currentConfig(); cfg == nil {
					t.Error("nil config observed")
					return
				}
			}
		}()
	}
	wg.Wait()
}
