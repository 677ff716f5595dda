package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SLA.CriticalHours != 2 || cfg.SLA.HighHours != 8 || cfg.SLA.MediumHours != 24 || cfg.SLA.LowHours != 72 {
		t.Errorf("SLA limits = %d/%d/%d/%d, want 2/8/24/72",
			cfg.SLA.CriticalHours, cfg.SLA.HighHours, cfg.SLA.MediumHours, cfg.SLA.LowHours)
	}
	if cfg.SLA.WorkStartHour != 9 || cfg.SLA.WorkEndHour != 18 {
		t.Errorf("business hours = %d-%d, want 9-18", cfg.SLA.WorkStartHour, cfg.SLA.WorkEndHour)
	}
	if len(cfg.SLA.WorkingDays) != 5 {
		t.Errorf("len(WorkingDays) = %d, want 5", len(cfg.SLA.WorkingDays))
	}
}

func TestLoadRejectsInvertedBusinessHours(t *testing.T) {
	t.Setenv("SLA_WORK_START_HOUR", "18")
	t.Setenv("SLA_WORK_END_HOUR", "9")

	if _, err := Load(); err == nil {
		t.Errorf("Load() with inverted hours: error = nil, want error")
	}
}

func TestParseWeekdays(t *testing.T) {
	days, err := parseWeekdays("1,2,3")
	if err != nil {
		t.Fatalf("parseWeekdays() error = %v", err)
	}
	want := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}
	if len(days) != len(want) {
		t.Fatalf("len(days) = %d, want %d", len(days), len(want))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days[%d] = %v, want %v", i, days[i], want[i])
		}
	}
}

func TestParseWeekdaysRejectsOutOfRange(t *testing.T) {
	if _, err := parseWeekdays("1,7"); err == nil {
		t.Errorf("parseWeekdays(\"1,7\") error = nil, want error")
	}
	if _, err := parseWeekdays("mon"); err == nil {
		t.Errorf("parseWeekdays(\"mon\") error = nil, want error")
	}
}

func TestDurationHelpers(t *testing.T) {
	app := AppConfig{RequestTimeoutSeconds: 15}
	if app.RequestTimeout() != 15*time.Second {
		t.Errorf("RequestTimeout() = %v, want 15s", app.RequestTimeout())
	}
	if (AppConfig{}).RequestTimeout() != 0 {
		t.Errorf("RequestTimeout() with zero config = %v, want 0 (disabled)", (AppConfig{}).RequestTimeout())
	}
	redis := RedisConfig{StatusCacheTTLSec: 60}
	if redis.StatusCacheTTL() != time.Minute {
		t.Errorf("StatusCacheTTL() = %v, want 1m", redis.StatusCacheTTL())
	}
	sla := SLAConfig{MonitorIntervalSeconds: 120}
	if sla.MonitorInterval() != 2*time.Minute {
		t.Errorf("MonitorInterval() = %v, want 2m", sla.MonitorInterval())
	}
	if (SLAConfig{}).MonitorInterval() != 5*time.Minute {
		t.Errorf("MonitorInterval() with zero config = %v, want 5m default", (SLAConfig{}).MonitorInterval())
	}
}
