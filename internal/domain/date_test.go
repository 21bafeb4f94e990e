package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-10-15")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if d != NewDate(2025, time.October, 15) {
		t.Fatalf("date = %v, want 2025-10-15", d)
	}
	if d.Weekday() != time.Wednesday {
		t.Fatalf("weekday = %v, want Wednesday", d.Weekday())
	}

	if _, err := ParseDate("2025-02-30"); err == nil {
		t.Fatalf("expected error for 2025-02-30")
	}
	if _, err := ParseDate("15/10/2025"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2025, time.December, 31)
	if got := d.AddDays(1); got != NewDate(2026, time.January, 1) {
		t.Fatalf("AddDays(1) = %v, want 2026-01-01", got)
	}
	if !d.Before(d.AddDays(1)) || !d.AddDays(1).After(d) {
		t.Fatalf("ordering broken around year end")
	}
	if d.Before(d) || d.After(d) {
		t.Fatalf("date must not be before or after itself")
	}
	if DaysIn(2024, time.February) != 29 || DaysIn(2025, time.February) != 28 {
		t.Fatalf("DaysIn February wrong")
	}
}

func TestDateIn_KeepsCalendarDay(t *testing.T) {
	loc, err := time.LoadLocation("Pacific/Auckland")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}
	d := NewDate(2025, time.October, 15)
	midnight := d.In(loc)
	if DateOf(midnight) != d {
		t.Fatalf("DateOf(In) = %v, want %v", DateOf(midnight), d)
	}
	if DateOf(midnight.UTC()) == d {
		t.Fatalf("utc view of auckland midnight should fall on the previous day")
	}
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Day  Date  `json:"day"`
		Opt  *Date `json:"opt,omitempty"`
		Zero Date  `json:"zero"`
	}

	b, err := json.Marshal(payload{Day: NewDate(2025, time.October, 18)})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(b) != `{"day":"2025-10-18","zero":null}` {
		t.Fatalf("json = %s", b)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"day":"2025-10-19","opt":"2026-01-01","zero":null}`), &p); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if p.Day != NewDate(2025, time.October, 19) || p.Opt == nil || *p.Opt != NewDate(2026, time.January, 1) || !p.Zero.IsZero() {
		t.Fatalf("decoded = %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"day":"tomorrow"}`), &p); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}
