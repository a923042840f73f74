package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AttendancePolicy is the organization attendance policy, optionally read from a YAML file:
//
//	half_day:
//	  enabled: true
//	  threshold_minutes: 240
//	week_off_days: [Sunday]
type AttendancePolicy struct {
	HalfDay     HalfDayPolicy `yaml:"half_day"`
	WeekOffDays []string      `yaml:"week_off_days"`
}

type HalfDayPolicy struct {
	Enabled          bool `yaml:"enabled"`
	ThresholdMinutes int  `yaml:"threshold_minutes"`
}

func DefaultPolicy() AttendancePolicy {
	return AttendancePolicy{
		WeekOffDays: []string{time.Sunday.String()},
	}
}

func LoadPolicy(path string) (AttendancePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AttendancePolicy{}, fmt.Errorf("read attendance policy: %w", err)
	}

	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return AttendancePolicy{}, fmt.Errorf("unmarshal attendance policy: %w", err)
	}

	if policy.HalfDay.Enabled && policy.HalfDay.ThresholdMinutes <= 0 {
		return AttendancePolicy{}, fmt.Errorf("half_day.threshold_minutes must be positive when half_day is enabled")
	}
	if _, err := policy.WeekOffWeekdays(); err != nil {
		return AttendancePolicy{}, err
	}
	return policy, nil
}

// HalfDayThreshold returns the demotion threshold in minutes, 0 when disabled.
func (p AttendancePolicy) HalfDayThreshold() int {
	if !p.HalfDay.Enabled {
		return 0
	}
	return p.HalfDay.ThresholdMinutes
}

func (p AttendancePolicy) WeekOffWeekdays() ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(p.WeekOffDays))
	for _, name := range p.WeekOffDays {
		day, ok := weekdayByName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown week_off_days entry %q", name)
		}
		days = append(days, day)
	}
	return days, nil
}

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
