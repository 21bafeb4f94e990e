package domain

import "time"

type Frequency string

const (
	FrequencyDaily    Frequency = "DAILY"
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiWeekly Frequency = "BI_WEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
	FrequencyYearly   Frequency = "YEARLY"
	FrequencyCustom   Frequency = "CUSTOM"
)

// RecurrencePattern describes how a template appointment repeats. When both EndDate and
// Occurrences are set, expansion stops at whichever bound is reached first.
type RecurrencePattern struct {
	Frequency    Frequency      `json:"frequency"`
	DaysOfWeek   []time.Weekday `json:"days_of_week,omitempty"`
	DayOfMonth   int            `json:"day_of_month,omitempty"`
	MonthOfYear  time.Month     `json:"month_of_year,omitempty"`
	EndDate      *Date          `json:"end_date,omitempty"`
	Occurrences  int            `json:"occurrences,omitempty"`
	ExcludeDates []Date         `json:"exclude_dates,omitempty"`

	// CustomRule is opaque here; CUSTOM patterns are handed to an external interpreter.
	CustomRule string `json:"custom_rule,omitempty"`
}

func (p RecurrencePattern) Excludes(d Date) bool {
	for _, ex := range p.ExcludeDates {
		if ex == d {
			return true
		}
	}
	return false
}
