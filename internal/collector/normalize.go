package collector

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abeelha/btc-tracker/internal/external"
	"github.com/abeelha/btc-tracker/internal/models"
)

// Normalize zips the three parallel [timestamp, value] series of a market
// chart into dataset rows, matching samples by timestamp. Timestamps missing
// from any of the three series are dropped. Within a batch, the latest sample
// for a calendar date wins (the provider includes a partial current day whose
// timestamp is newer than the daily close samples).
func Normalize(chart *external.MarketChart) ([]models.PriceRecord, error) {
	if chart == nil || len(chart.Prices) == 0 {
		return nil, fmt.Errorf("normalize: empty market chart")
	}

	caps := seriesByTimestamp(chart.MarketCaps)
	vols := seriesByTimestamp(chart.TotalVolumes)

	byDate := make(map[string]models.PriceRecord, len(chart.Prices))
	for _, sample := range chart.Prices {
		if len(sample) != 2 {
			return nil, fmt.Errorf("normalize: malformed price sample %v", sample)
		}
		ts := int64(sample[0])

		mcap, ok := caps[ts]
		if !ok {
			continue
		}
		vol, ok := vols[ts]
		if !ok {
			continue
		}

		dt := time.UnixMilli(ts).UTC()
		date := dt.Format(models.DateLayout)

		if prev, ok := byDate[date]; ok && prev.Datetime.After(dt) {
			continue
		}
		byDate[date] = models.PriceRecord{
			Date:      date,
			Datetime:  dt,
			Price:     roundPrice(sample[1]),
			MarketCap: roundToInt(mcap),
			Volume:    roundToInt(vol),
		}
	}

	if len(byDate) == 0 {
		return nil, fmt.Errorf("normalize: no timestamp present in all three series")
	}

	records := make([]models.PriceRecord, 0, len(byDate))
	for _, r := range byDate {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records, nil
}

func seriesByTimestamp(series [][]float64) map[int64]float64 {
	m := make(map[int64]float64, len(series))
	for _, sample := range series {
		if len(sample) == 2 {
			m[int64(sample[0])] = sample[1]
		}
	}
	return m
}

// roundPrice rounds to cents; float arithmetic on money is avoided here.
func roundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func roundToInt(v float64) int64 {
	return decimal.NewFromFloat(v).Round(0).IntPart()
}
