package models

import (
	"time"
)

// Consent represents the FS_CONSENT table
type Consent struct {
	ConsentID          string `db:"CONSENT_ID" json:"consentId"`
	Receipt            string `db:"RECEIPT" json:"receipt"`
	CreatedTime        int64  `db:"CREATED_TIME" json:"createdTime"`
	UpdatedTime        int64  `db:"UPDATED_TIME" json:"updatedTime"`
	ClientID           string `db:"CLIENT_ID" json:"clientId"`
	ConsentType        string `db:"CONSENT_TYPE" json:"consentType"`
	CurrentStatus      string `db:"CURRENT_STATUS" json:"currentStatus"`
	ConsentFrequency   int    `db:"CONSENT_FREQUENCY" json:"consentFrequency"`
	ValidityTime       int64  `db:"VALIDITY_TIME" json:"validityTime"`
	RecurringIndicator bool   `db:"RECURRING_INDICATOR" json:"recurringIndicator"`
	OrgID              string `db:"ORG_ID" json:"orgId"`
}

// GetCreatedTime returns the created time as a time.Time
func (c *Consent) GetCreatedTime() time.Time {
	return time.Unix(c.CreatedTime, 0)
}

// GetUpdatedTime returns the updated time as a time.Time
func (c *Consent) GetUpdatedTime() time.Time {
	return time.Unix(c.UpdatedTime, 0)
}

// DetailedConsent is the fully aggregated in-memory view of a consent:
// the consent row plus its attributes, its authorization resources and
// their resource mappings. It is assembled on read and never persisted
// as a single row.
type DetailedConsent struct {
	Consent
	Attributes    map[string]string     `json:"attributes"`
	AuthResources []ConsentAuthResource `json:"authorizationResources"`
	Mappings      []ConsentMapping      `json:"consentMappingResources"`
}

// ConsentWithAttributes is a consent joined with its attribute map in a
// single read. Attributes is empty, never nil, when no attributes exist.
type ConsentWithAttributes struct {
	Consent
	Attributes map[string]string `json:"attributes"`
}

// ConsentSearchParams represents search parameters for consent queries.
// An empty slice or nil pointer means the category is not filtered on;
// OrgID falls back to the platform default organization when blank.
type ConsentSearchParams struct {
	OrgID           string   `form:"-"`
	ConsentIDs      []string `form:"consentIds"`
	ClientIDs       []string `form:"clientIds"`
	ConsentTypes    []string `form:"consentTypes"`
	ConsentStatuses []string `form:"consentStatuses"`
	UserIDs         []string `form:"userIds"`
	FromTime        *int64   `form:"fromTime"`
	ToTime          *int64   `form:"toTime"`
	Limit           *int     `form:"limit"`
	Offset          *int     `form:"offset"`
}
