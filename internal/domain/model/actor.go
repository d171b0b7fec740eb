package model

import (
	"fmt"
	"strings"
)

// Actor identifies who performed a moderation action: a web panel operator,
// a Telegram user, or an automated subsystem. Exactly one of the three
// identity fields is populated; the named constructors are the only way to
// build one, which keeps the exclusivity invariant unconditional. The same
// rule is enforced by a check constraint where actors are persisted.
type Actor struct {
	OperatorID  string
	UserTGID    int64
	SystemID    string
	DisplayName string
}

// System actor identifiers shared across the engine.
const (
	SystemIDAutoBan       = "auto-ban"
	SystemIDAutoTrust     = "auto-trust"
	SystemIDAutoDetection = "auto-detection"
	SystemIDFileScanner   = "file-scanner"
)

var systemLabels = map[string]string{
	SystemIDAutoBan:       "Automatic ban",
	SystemIDAutoTrust:     "Automatic trust",
	SystemIDAutoDetection: "Spam detection",
	SystemIDFileScanner:   "File scanner",
}

func ActorFromOperator(operatorID, email string) Actor {
	display := strings.TrimSpace(email)
	if display == "" {
		display = operatorID
	}
	return Actor{OperatorID: operatorID, DisplayName: display}
}

func ActorFromUser(tgID int64, username string) Actor {
	display := strings.TrimSpace(username)
	if display == "" {
		display = fmt.Sprintf("user %d", tgID)
	}
	return Actor{UserTGID: tgID, DisplayName: display}
}

func ActorFromSystem(systemID string) Actor {
	display := systemLabels[systemID]
	if display == "" {
		display = systemID
	}
	return Actor{SystemID: systemID, DisplayName: display}
}

func (a Actor) IsOperator() bool { return a.OperatorID != "" }
func (a Actor) IsUser() bool     { return a.UserTGID != 0 }
func (a Actor) IsSystem() bool   { return a.SystemID != "" }

// Display renders a short label suitable for UI and chat messages.
func (a Actor) Display() string {
	if strings.TrimSpace(a.DisplayName) != "" {
		return a.DisplayName
	}
	switch {
	case a.IsOperator():
		return a.OperatorID
	case a.IsUser():
		return fmt.Sprintf("user %d", a.UserTGID)
	case a.IsSystem():
		return a.SystemID
	}
	return "unknown"
}

// Detail renders the full log-friendly description including the identity kind.
func (a Actor) Detail() string {
	switch {
	case a.IsOperator():
		return fmt.Sprintf("operator %s (%s)", a.OperatorID, a.Display())
	case a.IsUser():
		return fmt.Sprintf("telegram user %d (%s)", a.UserTGID, a.Display())
	case a.IsSystem():
		return fmt.Sprintf("system %s (%s)", a.SystemID, a.Display())
	}
	return "unknown actor"
}

// Validate reports whether precisely one identity field is set.
func (a Actor) Validate() error {
	populated := 0
	if a.IsOperator() {
		populated++
	}
	if a.IsUser() {
		populated++
	}
	if a.IsSystem() {
		populated++
	}
	if populated != 1 {
		return fmt.Errorf("actor must have exactly one identity, got %d", populated)
	}
	return nil
}
