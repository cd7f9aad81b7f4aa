package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
)

// CompaniesResponse is the JSON shape of GET /api/companies.
type CompaniesResponse struct {
	Companies []string `json:"companies"`
}

// Series is the JSON shape of GET /api/data, ascending by date.
type Series struct {
	Symbol string  `json:"symbol"`
	Data   []Point `json:"data"`
}

// Point is a single day of a symbol's series.
type Point struct {
	Date        Date       `json:"date"`
	Open        null.Float `json:"open"`
	High        null.Float `json:"high"`
	Low         null.Float `json:"low"`
	Close       null.Float `json:"close"`
	AdjClose    null.Float `json:"adj_close"`
	Volume      null.Float `json:"volume"`
	DailyReturn null.Float `json:"daily_return"`
	MA7         null.Float `json:"ma_7"`
}

// Last returns the most recent point, or false for an empty series.
func (s *Series) Last() (Point, bool) {
	if s == nil || len(s.Data) == 0 {
		return Point{}, false
	}
	return s.Data[len(s.Data)-1], true
}

// Date is a calendar date. Date-times are projected onto their UTC date.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999", // no offset, read as UTC
	"2006-01-02 15:04:05",
}

// ParseDate parses the date forms the backend emits.
func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC()}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

// NewDate builds a Date from a calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	return d.UTC().Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("date is null")
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
