package model

// Result describes the outcome of one executed intent. The orchestrator
// always returns a fully-formed value; flags default to false/zero when an
// invocation exits early.
type Result struct {
	Success bool
	Error   string

	MessageDeleted   bool
	TrustRemoved     bool
	TrustRestored    bool
	WarningCount     int
	AutoBanTriggered bool
	ChatsAffected    int
}

func SuccessResult() Result {
	return Result{Success: true}
}

func FailureResult(message string) Result {
	return Result{Error: message}
}

// BlockedResult is returned when the target is a protected service account.
// It is not a handler failure and is never audited as a real action.
func BlockedResult() Result {
	return Result{Error: "target account is protected and cannot be moderated"}
}
