package models

// ConsentAuthResource represents the FS_CONSENT_AUTH_RESOURCE table
type ConsentAuthResource struct {
	AuthID      string `db:"AUTH_ID" json:"authId"`
	ConsentID   string `db:"CONSENT_ID" json:"consentId"`
	AuthType    string `db:"AUTH_TYPE" json:"authType"`
	UserID      string `db:"USER_ID" json:"userId"`
	AuthStatus  string `db:"AUTH_STATUS" json:"authStatus"`
	UpdatedTime int64  `db:"UPDATED_TIME" json:"updatedTime"`
	OrgID       string `db:"ORG_ID" json:"orgId"`
}
