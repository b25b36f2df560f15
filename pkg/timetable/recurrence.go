package timetable

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/penlet/reminders/pkg/models"
)

// expandRecurring expands a recurring class into concrete instances that
// start within [windowStart, windowEnd]. Each instance gets a derived ID so
// two occurrences of the same class never collide.
func expandRecurring(base models.Class, ruleValue string, windowStart, windowEnd time.Time) ([]models.Class, error) {
	rule, err := rrule.StrToRRule(ruleValue)
	if err != nil {
		return nil, fmt.Errorf("parse RRULE: %w", err)
	}
	rule.DTStart(base.StartTime)

	duration := base.EndTime.Sub(base.StartTime)

	instances := []models.Class{}
	for _, start := range rule.Between(windowStart, windowEnd, true) {
		instance := base
		instance.StartTime = start
		instance.EndTime = start.Add(duration)
		instance.ID = base.ID + "-" + start.Format(time.RFC3339)
		instances = append(instances, instance)
	}
	return instances, nil
}
