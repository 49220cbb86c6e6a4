package classify

import (
	"strings"

	"connectvision/internal/config"
	"connectvision/internal/domain"
)

// Bucket normalizes a work-item severity for filtering. CRITICAL splits on
// the category text: carrier/driver callbacks get their own bucket because
// they run on a much tighter age floor than other criticals. Every other
// severity passes through unchanged.
func Bucket(severity, category string) domain.SeverityBucket {
	if severity == "CRITICAL" {
		lower := strings.ToLower(category)
		if strings.Contains(lower, "carrier callback") || strings.Contains(lower, "driver callback") {
			return domain.BucketCriticalCarrierDriver
		}
		return domain.BucketCriticalOthers
	}
	return domain.SeverityBucket(severity)
}

// bucketFloor is the age in minutes a record must reach before its bucket
// alerts. Unknown severities use the general floor.
func bucketFloor(bucket domain.SeverityBucket, cfg config.AlertConfig) float64 {
	switch bucket {
	case domain.BucketCriticalCarrierDriver:
		return float64(cfg.CarrierDriverMinutes)
	case domain.BucketCriticalOthers:
		return float64(cfg.CriticalOthersMinutes)
	default:
		return float64(cfg.OthersMinutes)
	}
}

// Filter is the enabled-bucket set of one alert box.
type Filter struct {
	enabled map[domain.SeverityBucket]bool
}

func NewFilter(buckets []string) Filter {
	f := Filter{enabled: make(map[domain.SeverityBucket]bool, len(buckets))}
	for _, b := range buckets {
		f.enabled[domain.SeverityBucket(b)] = true
	}
	return f
}

func (f Filter) Enabled(b domain.SeverityBucket) bool {
	return f.enabled[b]
}

// WorkItem classifies one task record for export: the severity label when
// the record's bucket is enabled and its age clears the bucket floor,
// otherwise none.
func WorkItem(rec domain.Record, f Filter, cfg config.AlertConfig) domain.Label {
	bucket := Bucket(rec.Severity, rec.Category)
	if !f.Enabled(bucket) || rec.DurationMinutes < bucketFloor(bucket, cfg) {
		return domain.LabelNone
	}
	switch bucket {
	case domain.BucketCriticalCarrierDriver, domain.BucketCriticalOthers:
		return domain.LabelCritical
	case domain.BucketHigh:
		return domain.LabelHigh
	case domain.BucketMedium:
		return domain.LabelMedium
	case domain.BucketLow:
		return domain.LabelLow
	default:
		return domain.LabelNone
	}
}

// Alert is what one alert box displays: the oldest enabled record.
type Alert struct {
	AgeMinutes float64
	Category   string
	Severity   string
}

func (a Alert) IsZero() bool { return a.AgeMinutes == 0 }

// MaxAlert reduces the cycle's records to the single oldest one whose
// bucket the box has enabled. Strict greater-than keeps the first holder
// on ties. An all-filtered or empty cycle returns the zero Alert.
func MaxAlert(records []domain.Record, f Filter) Alert {
	var max Alert
	for _, rec := range records {
		if !f.Enabled(Bucket(rec.Severity, rec.Category)) {
			continue
		}
		if rec.DurationMinutes > max.AgeMinutes {
			max = Alert{
				AgeMinutes: rec.DurationMinutes,
				Category:   rec.Category,
				Severity:   rec.Severity,
			}
		}
	}
	return max
}

// Tier grades an alert age for display emphasis.
type Tier string

const (
	TierNone     Tier = "none"
	TierNotice   Tier = "notice"
	TierWarning  Tier = "warning"
	TierSevere   Tier = "severe"
	TierCritical Tier = "critical"
)

func AgeTier(ageMinutes float64) Tier {
	switch {
	case ageMinutes < 2:
		return TierNone
	case ageMinutes < 3:
		return TierNotice
	case ageMinutes < 4:
		return TierWarning
	case ageMinutes < 5:
		return TierSevere
	default:
		return TierCritical
	}
}
