package dao

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/wso2/financial-services-consent-core/internal/models"
)

// groupDelimiter separates the values GROUP_CONCAT packs into a single
// column of a detailed search row.
const groupDelimiter = "||"

// detailedConsentRow is the flat, denormalized shape of one detailed
// search result row: the consent columns plus the repeated groups the
// database concatenated per consent. Group columns are NULL when the
// consent has no rows in the joined relation.
type detailedConsentRow struct {
	models.Consent
	AttKeys          sql.NullString `db:"ATT_KEYS"`
	AttValues        sql.NullString `db:"ATT_VALUES"`
	AuthIDs          sql.NullString `db:"AUTH_IDS"`
	AuthTypes        sql.NullString `db:"AUTH_TYPES"`
	AuthStatuses     sql.NullString `db:"AUTH_STATUSES"`
	AuthUserIDs      sql.NullString `db:"AUTH_USER_IDS"`
	AuthUpdatedTimes sql.NullString `db:"AUTH_UPDATED_TIMES"`
	MappingIDs       sql.NullString `db:"MAPPING_IDS"`
	MappingAuthIDs   sql.NullString `db:"MAPPING_AUTH_IDS"`
	MappingStatuses  sql.NullString `db:"MAPPING_STATUSES"`
	MappingResources sql.NullString `db:"MAPPING_RESOURCES"`
}

func splitGroup(col sql.NullString) []string {
	if !col.Valid || col.String == "" {
		return nil
	}
	return strings.Split(col.String, groupDelimiter)
}

func groupValue(group []string, i int) string {
	if i < len(group) {
		return group[i]
	}
	return ""
}

// mapDetailedRows reduces denormalized search rows into the nested
// DetailedConsent object graph. Consents are deduplicated by id across
// rows; authorization and mapping groups are deduplicated by first-seen
// id within each consent, since the join fan-out repeats ids inside the
// concatenated groups. Row order and first-seen sub-list order are
// preserved.
func mapDetailedRows(rows []detailedConsentRow) []models.DetailedConsent {
	results := make([]models.DetailedConsent, 0, len(rows))
	index := make(map[string]int, len(rows))
	seenAuths := make(map[string]map[string]struct{}, len(rows))
	seenMappings := make(map[string]map[string]struct{}, len(rows))

	for _, row := range rows {
		pos, ok := index[row.ConsentID]
		if !ok {
			results = append(results, models.DetailedConsent{
				Consent:       row.Consent,
				Attributes:    make(map[string]string),
				AuthResources: []models.ConsentAuthResource{},
				Mappings:      []models.ConsentMapping{},
			})
			pos = len(results) - 1
			index[row.ConsentID] = pos
			seenAuths[row.ConsentID] = make(map[string]struct{})
			seenMappings[row.ConsentID] = make(map[string]struct{})
		}
		detailed := &results[pos]

		// Attributes zip only when the key and value groups split into
		// equal-length slices; a mismatch skips attribute population.
		attKeys := splitGroup(row.AttKeys)
		attValues := splitGroup(row.AttValues)
		if len(attKeys) == len(attValues) {
			for i, key := range attKeys {
				detailed.Attributes[key] = attValues[i]
			}
		}

		authIDs := splitGroup(row.AuthIDs)
		authTypes := splitGroup(row.AuthTypes)
		authStatuses := splitGroup(row.AuthStatuses)
		authUserIDs := splitGroup(row.AuthUserIDs)
		authUpdatedTimes := splitGroup(row.AuthUpdatedTimes)
		for i, authID := range authIDs {
			if authID == "" {
				continue
			}
			if _, dup := seenAuths[row.ConsentID][authID]; dup {
				continue
			}
			seenAuths[row.ConsentID][authID] = struct{}{}

			auth := models.ConsentAuthResource{
				AuthID:     authID,
				ConsentID:  row.ConsentID,
				AuthType:   groupValue(authTypes, i),
				UserID:     groupValue(authUserIDs, i),
				AuthStatus: groupValue(authStatuses, i),
				OrgID:      row.OrgID,
			}
			if t, err := strconv.ParseInt(groupValue(authUpdatedTimes, i), 10, 64); err == nil {
				auth.UpdatedTime = t
			}
			detailed.AuthResources = append(detailed.AuthResources, auth)
		}

		mappingIDs := splitGroup(row.MappingIDs)
		mappingAuthIDs := splitGroup(row.MappingAuthIDs)
		mappingStatuses := splitGroup(row.MappingStatuses)
		mappingResources := splitGroup(row.MappingResources)
		for i, mappingID := range mappingIDs {
			if mappingID == "" {
				continue
			}
			if _, dup := seenMappings[row.ConsentID][mappingID]; dup {
				continue
			}
			seenMappings[row.ConsentID][mappingID] = struct{}{}

			detailed.Mappings = append(detailed.Mappings, models.ConsentMapping{
				MappingID:     mappingID,
				AuthID:        groupValue(mappingAuthIDs, i),
				Resource:      groupValue(mappingResources, i),
				MappingStatus: groupValue(mappingStatuses, i),
				OrgID:         row.OrgID,
			})
		}
	}

	return results
}
