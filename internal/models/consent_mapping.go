package models

// ConsentMapping represents the FS_CONSENT_MAPPING table. Resource is an
// opaque payload identifying the account/permission pair covered by the
// owning authorization.
type ConsentMapping struct {
	MappingID     string `db:"MAPPING_ID" json:"mappingId"`
	AuthID        string `db:"AUTH_ID" json:"authId"`
	Resource      string `db:"RESOURCE" json:"resource"`
	MappingStatus string `db:"MAPPING_STATUS" json:"mappingStatus"`
	OrgID         string `db:"ORG_ID" json:"orgId"`
}
