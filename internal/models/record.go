package models

import "time"

// DateLayout is the calendar-date key format used throughout the dataset.
const DateLayout = "2006-01-02"

// DatetimeLayout is how full timestamps are written to the CSV dataset.
const DatetimeLayout = "2006-01-02 15:04:05"

// PriceRecord is one row of the merged dataset. Date is the unique key;
// Datetime carries the original sample time and is informational only.
type PriceRecord struct {
	Date      string    `json:"date"`
	Datetime  time.Time `json:"datetime"`
	Price     float64   `json:"price"`
	MarketCap int64     `json:"marketCap"`
	Volume    int64     `json:"volume"`
}

// CurrentQuote is the spot view returned by the current-price endpoint.
type CurrentQuote struct {
	Price         float64   `json:"price"`
	MarketCap     float64   `json:"marketCap"`
	Volume24h     float64   `json:"volume24h"`
	Change24h     float64   `json:"change24h"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
