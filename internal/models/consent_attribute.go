package models

// ConsentAttribute represents a single row of the FS_CONSENT_ATTRIBUTE table
type ConsentAttribute struct {
	ConsentID string `db:"CONSENT_ID" json:"consentId"`
	AttKey    string `db:"ATT_KEY" json:"attKey"`
	AttValue  string `db:"ATT_VALUE" json:"attValue"`
	OrgID     string `db:"ORG_ID" json:"orgId"`
}

// AttributeExpiryTime is the attribute key the expiry scan matches against.
const AttributeExpiryTime = "CONSENT_EXPIRY_TIME"
