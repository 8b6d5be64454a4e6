package charts

import (
	"fmt"

	"github.com/abeelha/btc-tracker/internal/models"
)

// Summary describes the price series over the dataset window. Current is the
// price of the newest row (the dataset is sorted ascending by date).
type Summary struct {
	Current   float64
	Min       float64
	Max       float64
	Avg       float64
	Range     float64
	FirstDate string
	LastDate  string
	Rows      int
}

func Summarize(records []models.PriceRecord) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, fmt.Errorf("summarize: empty dataset")
	}

	s := Summary{
		Current:   records[len(records)-1].Price,
		Min:       records[0].Price,
		Max:       records[0].Price,
		FirstDate: records[0].Date,
		LastDate:  records[len(records)-1].Date,
		Rows:      len(records),
	}

	var sum float64
	for _, r := range records {
		if r.Price < s.Min {
			s.Min = r.Price
		}
		if r.Price > s.Max {
			s.Max = r.Price
		}
		sum += r.Price
	}
	s.Avg = sum / float64(len(records))
	s.Range = s.Max - s.Min
	return s, nil
}

// PositionPercent places current within [min, max] as 0..100. A flat window
// (min == max) reports 50.
func PositionPercent(current, min, max float64) float64 {
	if max <= min {
		return 50
	}
	pct := (current - min) / (max - min) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func (s Summary) Print() {
	fmt.Println("=== Bitcoin Statistics ===")
	fmt.Printf("Current Price: $%.2f\n", s.Current)
	fmt.Printf("Window High:   $%.2f\n", s.Max)
	fmt.Printf("Window Low:    $%.2f\n", s.Min)
	fmt.Printf("Average Price: $%.2f\n", s.Avg)
	fmt.Printf("Price Range:   $%.2f\n", s.Range)
	fmt.Printf("Rows: %d (%s .. %s)\n", s.Rows, s.FirstDate, s.LastDate)
	fmt.Println("==========================")
}
