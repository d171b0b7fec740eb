package dto

type WarningPolicyRequest struct {
	Threshold      int    `json:"threshold"`
	AutoBanEnabled bool   `json:"auto_ban_enabled"`
	ReasonTemplate string `json:"reason_template,omitempty"`
}

type WarningPolicyResponse struct {
	ChatID         int64  `json:"chat_id"`
	Threshold      int    `json:"threshold"`
	AutoBanEnabled bool   `json:"auto_ban_enabled"`
	ReasonTemplate string `json:"reason_template"`
}
