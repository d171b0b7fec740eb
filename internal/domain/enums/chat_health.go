package enums

type ChatHealthState string

const (
	ChatHealthUnknown       ChatHealthState = "UNKNOWN"
	ChatHealthHealthy       ChatHealthState = "HEALTHY"
	ChatHealthWarning       ChatHealthState = "WARNING"
	ChatHealthError         ChatHealthState = "ERROR"
	ChatHealthNotApplicable ChatHealthState = "NOT_APPLICABLE"
)
