package domain

// Label is the single classification assigned to a record for one cycle.
// A record gets at most one: rules are evaluated in strict priority order
// and the first match wins.
type Label string

const (
	LabelNone           Label = ""
	LabelOutOfSchedule  Label = "out-of-schedule"
	LabelDurationHigh   Label = "red"
	LabelDurationMedium Label = "yellow"
	LabelBreakOverlong  Label = "blue"
	LabelLunchOverlong  Label = "orange"
	LabelCritical       Label = "critical"
	LabelHigh           Label = "high"
	LabelMedium         Label = "medium"
	LabelLow            Label = "low"
)

func (l Label) IsZero() bool { return l == LabelNone }

// SeverityBucket is the normalized workitem severity used for alert
// filtering. CRITICAL splits in two depending on the category text.
type SeverityBucket string

const (
	BucketCriticalCarrierDriver SeverityBucket = "CRITICAL_CARRIER_DRIVER"
	BucketCriticalOthers        SeverityBucket = "CRITICAL_OTHERS"
	BucketHigh                  SeverityBucket = "HIGH"
	BucketMedium                SeverityBucket = "MEDIUM"
	BucketLow                   SeverityBucket = "LOW"
)
