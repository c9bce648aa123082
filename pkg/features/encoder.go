package features

import (
	"strings"
	"time"

	"freshlens-backend/entities"
)

const secondsPerDay = 86400.0

// Encode builds the feature vector for one item against the current sensor
// summary. It is deterministic and total: unknown item names or conditions
// produce an all-zero one-hot block instead of an error.
//
// The returned slice follows TrainingColumns exactly; any named feature not in
// the schema is dropped and any schema column not built is zero.
func Encode(item *entities.Item, avgTemp, avgHumid float64, now time.Time) []float64 {
	named := map[string]float64{
		"avg_temp": avgTemp, "std_temp": 0.0, "max_temp": avgTemp, "min_temp": avgTemp,
		"avg_humid": avgHumid, "std_humid": 0.0, "max_humid": avgHumid, "min_humid": avgHumid,
		"durasi_observasi": observationDays(item.EntryDate, now),
	}

	if col, ok := itemAliases[normalize(item.Name)]; ok {
		named[col] = 1.0
	}
	if col, ok := conditionAliases[normalize(item.InitialCondition)]; ok {
		named[col] = 1.0
	}
	if item.StorageMode == entities.StorageModeRefrigerated {
		named["Mode_Simpan_Kulkas"] = 1.0
	}

	// Reindex against the canonical order; this is the step that guarantees
	// the booster sees columns in training order.
	row := make([]float64, len(TrainingColumns))
	for i, col := range TrainingColumns {
		row[i] = named[col]
	}
	return row
}

// observationDays is the elapsed time since the item entered the inventory,
// as a day fraction. Clock skew can put EntryDate in the future; that never
// yields a negative duration.
func observationDays(entryDate time.Time, now time.Time) float64 {
	if entryDate.IsZero() {
		return 0.0
	}
	days := now.Sub(entryDate).Seconds() / secondsPerDay
	if days < 0 {
		return 0.0
	}
	return days
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
