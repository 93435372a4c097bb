package models

// ConsentStatusAudit represents the FS_CONSENT_STATUS_AUDIT table.
// Records are append-only; they are never updated or deleted individually.
type ConsentStatusAudit struct {
	StatusAuditID  string `db:"STATUS_AUDIT_ID" json:"statusAuditId"`
	ConsentID      string `db:"CONSENT_ID" json:"consentId"`
	CurrentStatus  string `db:"CURRENT_STATUS" json:"currentStatus"`
	ActionTime     int64  `db:"ACTION_TIME" json:"actionTime"`
	Reason         string `db:"REASON" json:"reason"`
	ActionBy       string `db:"ACTION_BY" json:"actionBy"`
	PreviousStatus string `db:"PREVIOUS_STATUS" json:"previousStatus"`
	OrgID          string `db:"ORG_ID" json:"orgId"`
}

// StatusAuditSearchParams represents search parameters for status audit queries
type StatusAuditSearchParams struct {
	OrgID          string   `form:"-"`
	ConsentIDs     []string `form:"consentIds"`
	Statuses       []string `form:"statuses"`
	ActionBy       []string `form:"actionBy"`
	StatusAuditIDs []string `form:"statusAuditIds"`
	FromTime       *int64   `form:"fromTime"`
	ToTime         *int64   `form:"toTime"`
	Limit          *int     `form:"limit"`
	Offset         *int     `form:"offset"`
}
