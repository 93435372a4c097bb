package dao

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/financial-services-consent-core/internal/models"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func testConsent(id string) models.Consent {
	return models.Consent{
		ConsentID:     id,
		Receipt:       `{"permissions":["ReadAccountsBasic"]}`,
		CreatedTime:   1700000000,
		UpdatedTime:   1700000100,
		ClientID:      "app-1",
		ConsentType:   "accounts",
		CurrentStatus: "authorised",
		OrgID:         testOrgID,
	}
}

func TestMapDetailedRows_TwoAuthsThreeMappings(t *testing.T) {
	// Join fan-out: two authorizations with three mappings between them
	// repeat auth ids inside the concatenated groups.
	row := detailedConsentRow{
		Consent:          testConsent("c1"),
		AttKeys:          nullString("expiry||scope"),
		AttValues:        nullString("1700003600||accounts"),
		AuthIDs:          nullString("a1||a1||a2"),
		AuthTypes:        nullString("authorization||authorization||authorization"),
		AuthStatuses:     nullString("authorised||authorised||authorised"),
		AuthUserIDs:      nullString("u1||u1||u2"),
		AuthUpdatedTimes: nullString("1700000100||1700000100||1700000200"),
		MappingIDs:       nullString("m1||m2||m3"),
		MappingAuthIDs:   nullString("a1||a1||a2"),
		MappingStatuses:  nullString("active||active||active"),
		MappingResources: nullString(`{"accountID":"1"}||{"accountID":"2"}||{"accountID":"3"}`),
	}

	results := mapDetailedRows([]detailedConsentRow{row})
	require.Len(t, results, 1)

	detailed := results[0]
	assert.Equal(t, "c1", detailed.ConsentID)
	require.Len(t, detailed.AuthResources, 2)
	require.Len(t, detailed.Mappings, 3)

	assert.Equal(t, "a1", detailed.AuthResources[0].AuthID)
	assert.Equal(t, "u1", detailed.AuthResources[0].UserID)
	assert.Equal(t, int64(1700000100), detailed.AuthResources[0].UpdatedTime)
	assert.Equal(t, "a2", detailed.AuthResources[1].AuthID)

	// Referential consistency: every mapping points at one of the auths.
	authIDs := map[string]bool{}
	for _, auth := range detailed.AuthResources {
		authIDs[auth.AuthID] = true
	}
	for _, mapping := range detailed.Mappings {
		assert.True(t, authIDs[mapping.AuthID], "mapping %s references unknown auth %s", mapping.MappingID, mapping.AuthID)
	}

	assert.Equal(t, map[string]string{"expiry": "1700003600", "scope": "accounts"}, detailed.Attributes)
}

func TestMapDetailedRows_AttributeLengthMismatchSkipsAttributes(t *testing.T) {
	row := detailedConsentRow{
		Consent:   testConsent("c1"),
		AttKeys:   nullString("a||b||c"),
		AttValues: nullString("1||2"),
	}

	results := mapDetailedRows([]detailedConsentRow{row})
	require.Len(t, results, 1)

	assert.Empty(t, results[0].Attributes)
	assert.Empty(t, results[0].AuthResources)
	assert.Empty(t, results[0].Mappings)
}

func TestMapDetailedRows_NullGroupsDegradeToEmptyLists(t *testing.T) {
	row := detailedConsentRow{Consent: testConsent("c1")}

	results := mapDetailedRows([]detailedConsentRow{row})
	require.Len(t, results, 1)

	assert.NotNil(t, results[0].Attributes)
	assert.Empty(t, results[0].Attributes)
	assert.NotNil(t, results[0].AuthResources)
	assert.Empty(t, results[0].AuthResources)
	assert.NotNil(t, results[0].Mappings)
	assert.Empty(t, results[0].Mappings)
}

func TestMapDetailedRows_PreservesRowOrder(t *testing.T) {
	rows := []detailedConsentRow{
		{Consent: testConsent("c2")},
		{Consent: testConsent("c1")},
		{Consent: testConsent("c3")},
	}

	results := mapDetailedRows(rows)
	require.Len(t, results, 3)
	assert.Equal(t, "c2", results[0].ConsentID)
	assert.Equal(t, "c1", results[1].ConsentID)
	assert.Equal(t, "c3", results[2].ConsentID)
}

func TestMapDetailedRows_DeduplicatesRepeatedConsentRows(t *testing.T) {
	first := detailedConsentRow{
		Consent: testConsent("c1"),
		AuthIDs: nullString("a1"),
	}
	second := detailedConsentRow{
		Consent: testConsent("c1"),
		AuthIDs: nullString("a1||a2"),
	}

	results := mapDetailedRows([]detailedConsentRow{first, second})
	require.Len(t, results, 1)
	require.Len(t, results[0].AuthResources, 2)
	assert.Equal(t, "a1", results[0].AuthResources[0].AuthID)
	assert.Equal(t, "a2", results[0].AuthResources[1].AuthID)
}
