package enums

type AuditAction string

const (
	AuditActionBanUser            AuditAction = "BAN_USER"
	AuditActionTempBanUser        AuditAction = "TEMP_BAN_USER"
	AuditActionUnbanUser          AuditAction = "UNBAN_USER"
	AuditActionAutoBanUser        AuditAction = "AUTO_BAN_USER"
	AuditActionWarnUser           AuditAction = "WARN_USER"
	AuditActionTrustUser          AuditAction = "TRUST_USER"
	AuditActionUntrustUser        AuditAction = "UNTRUST_USER"
	AuditActionRestrictUser       AuditAction = "RESTRICT_USER"
	AuditActionKickUser           AuditAction = "KICK_USER"
	AuditActionRestorePermissions AuditAction = "RESTORE_PERMISSIONS"
	AuditActionDeleteMessage      AuditAction = "DELETE_MESSAGE"
	AuditActionSyncBan            AuditAction = "SYNC_BAN"
	AuditActionMalwareViolation   AuditAction = "MALWARE_VIOLATION"
	AuditActionCriticalViolation  AuditAction = "CRITICAL_VIOLATION"
)
