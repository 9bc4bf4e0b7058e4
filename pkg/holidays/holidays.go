package holidays

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"agenda-service/pkg/calendar"
)

// CalendarJSON is the national holiday file layout: one document per year,
// days listed per month as a comma-separated string. A trailing "*" marks an
// optional (facultativo) holiday and is kept in the description.
type CalendarJSON struct {
	Year   int          `json:"year"`
	Months []MonthGroup `json:"months"`
}

type MonthGroup struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
	Name  string `json:"name"`
}

// Holiday is a single parsed non-working date.
type Holiday struct {
	Year        int
	Month       int
	Day         int
	Description string
}

// Date renders the holiday as YYYY-MM-DD.
func (h Holiday) Date() string {
	return calendar.FormatDate(h.Year, h.Month, h.Day)
}

// ParseFile reads and parses a holiday calendar file.
func ParseFile(path string) ([]Holiday, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday file: %w", err)
	}
	return Parse(data)
}

// Parse parses a holiday calendar document.
func Parse(data []byte) ([]Holiday, error) {
	var doc CalendarJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holiday JSON: %w", err)
	}

	if doc.Year < 2000 || doc.Year > 2100 {
		return nil, fmt.Errorf("holiday calendar year %d out of range", doc.Year)
	}

	result := []Holiday{}

	for _, group := range doc.Months {
		if group.Month < 1 || group.Month > 12 {
			return nil, fmt.Errorf("invalid month %d in holiday calendar", group.Month)
		}

		for _, dayStr := range strings.Split(group.Days, ",") {
			dayStr = strings.TrimSpace(dayStr)
			optional := strings.HasSuffix(dayStr, "*")
			dayStr = strings.TrimSuffix(dayStr, "*")
			dayStr = strings.TrimSuffix(dayStr, "+")

			if dayStr == "" {
				continue
			}

			day, err := strconv.Atoi(dayStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day %q in month %d: %w",
					dayStr, group.Month, err)
			}
			if day < 1 || day > calendar.DaysInMonth(doc.Year, group.Month) {
				return nil, fmt.Errorf("day %d out of range for month %d", day, group.Month)
			}

			desc := group.Name
			if optional {
				desc = strings.TrimSpace(desc + " (facultativo)")
			}

			result = append(result, Holiday{
				Year:        doc.Year,
				Month:       group.Month,
				Day:         day,
				Description: desc,
			})
		}
	}

	return result, nil
}
