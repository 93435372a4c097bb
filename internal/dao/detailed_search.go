package dao

import (
	"context"
	"fmt"
	"strings"

	"github.com/wso2/financial-services-consent-core/internal/models"
)

// detailedConsentBaseQuery joins the consent with its attributes,
// authorizations and mappings and concatenates each repeated group per
// consent. Every group column within a relation is ordered by the same
// key so positions align across columns; USER_ID is coalesced because
// GROUP_CONCAT would otherwise drop NULLs and shift positions.
const detailedConsentBaseQuery = `
	SELECT C.CONSENT_ID, C.RECEIPT, C.CREATED_TIME, C.UPDATED_TIME, C.CLIENT_ID,
	       C.CONSENT_TYPE, C.CURRENT_STATUS, C.CONSENT_FREQUENCY, C.VALIDITY_TIME,
	       C.RECURRING_INDICATOR, C.ORG_ID,
	       GROUP_CONCAT(CA.ATT_KEY ORDER BY CA.ATT_KEY SEPARATOR '||') AS ATT_KEYS,
	       GROUP_CONCAT(CA.ATT_VALUE ORDER BY CA.ATT_KEY SEPARATOR '||') AS ATT_VALUES,
	       GROUP_CONCAT(AR.AUTH_ID ORDER BY AR.AUTH_ID SEPARATOR '||') AS AUTH_IDS,
	       GROUP_CONCAT(AR.AUTH_TYPE ORDER BY AR.AUTH_ID SEPARATOR '||') AS AUTH_TYPES,
	       GROUP_CONCAT(AR.AUTH_STATUS ORDER BY AR.AUTH_ID SEPARATOR '||') AS AUTH_STATUSES,
	       GROUP_CONCAT(COALESCE(AR.USER_ID, '') ORDER BY AR.AUTH_ID SEPARATOR '||') AS AUTH_USER_IDS,
	       GROUP_CONCAT(AR.UPDATED_TIME ORDER BY AR.AUTH_ID SEPARATOR '||') AS AUTH_UPDATED_TIMES,
	       GROUP_CONCAT(M.MAPPING_ID ORDER BY M.MAPPING_ID SEPARATOR '||') AS MAPPING_IDS,
	       GROUP_CONCAT(M.AUTH_ID ORDER BY M.MAPPING_ID SEPARATOR '||') AS MAPPING_AUTH_IDS,
	       GROUP_CONCAT(M.MAPPING_STATUS ORDER BY M.MAPPING_ID SEPARATOR '||') AS MAPPING_STATUSES,
	       GROUP_CONCAT(M.RESOURCE ORDER BY M.MAPPING_ID SEPARATOR '||') AS MAPPING_RESOURCES
	FROM FS_CONSENT C
	LEFT JOIN FS_CONSENT_ATTRIBUTE CA ON C.CONSENT_ID = CA.CONSENT_ID AND C.ORG_ID = CA.ORG_ID
	LEFT JOIN FS_CONSENT_AUTH_RESOURCE AR ON C.CONSENT_ID = AR.CONSENT_ID AND C.ORG_ID = AR.ORG_ID
	LEFT JOIN FS_CONSENT_MAPPING M ON AR.AUTH_ID = M.AUTH_ID AND AR.ORG_ID = M.ORG_ID
	WHERE %s
	GROUP BY C.CONSENT_ID
	ORDER BY C.UPDATED_TIME DESC`

// SearchDetailed searches consents with the given criteria and returns
// the fully aggregated view of every match, preserving the database's
// row order.
func (dao *ConsentDAO) SearchDetailed(ctx context.Context, params *models.ConsentSearchParams) ([]models.DetailedConsent, error) {
	if params.OrgID == "" {
		params.OrgID = dao.defaultOrgID
	}

	whereClause, args := renderConditions(buildConsentSearchConditions(params))
	query := fmt.Sprintf(detailedConsentBaseQuery, whereClause)

	pagination, paginationArgs := paginationClause(params.Limit, params.Offset, dao.limitBeforeOffset)
	query += pagination
	args = append(args, paginationArgs...)

	var rows []detailedConsentRow
	err := dao.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, retrievalError("search detailed consents", err)
	}

	return mapDetailedRows(rows), nil
}

// GetDetailedByID retrieves the fully aggregated view of one consent
func (dao *ConsentDAO) GetDetailedByID(ctx context.Context, consentID, orgID string) (*models.DetailedConsent, error) {
	results, err := dao.SearchDetailed(ctx, &models.ConsentSearchParams{
		OrgID:      orgID,
		ConsentIDs: []string{consentID},
	})
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, notFoundError("get detailed consent", consentID)
	}

	return &results[0], nil
}

// GetExpiringConsents returns the detailed view of every consent that
// carries an expiry-time attribute and is still in one of the eligible
// statuses, given as a comma-separated list. An empty candidate set
// returns an empty list without issuing the detailed search.
func (dao *ConsentDAO) GetExpiringConsents(ctx context.Context, orgID, eligibleStatusesCSV string) ([]models.DetailedConsent, error) {
	if orgID == "" {
		orgID = dao.defaultOrgID
	}

	statuses := splitCSV(eligibleStatusesCSV)
	if len(statuses) == 0 {
		return []models.DetailedConsent{}, nil
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT CA.CONSENT_ID
		FROM FS_CONSENT_ATTRIBUTE CA
		INNER JOIN FS_CONSENT C ON CA.CONSENT_ID = C.CONSENT_ID AND CA.ORG_ID = C.ORG_ID
		WHERE CA.ORG_ID = ? AND CA.ATT_KEY = ? AND C.CURRENT_STATUS IN (%s)
	`, inPlaceholders(len(statuses)))

	args := append([]interface{}{orgID, models.AttributeExpiryTime}, toArgs(statuses)...)

	var consentIDs []string
	err := dao.db.SelectContext(ctx, &consentIDs, query, args...)
	if err != nil {
		return nil, retrievalError("get expiring consents", err)
	}

	if len(consentIDs) == 0 {
		return []models.DetailedConsent{}, nil
	}

	return dao.SearchDetailed(ctx, &models.ConsentSearchParams{
		OrgID:      orgID,
		ConsentIDs: consentIDs,
	})
}

func splitCSV(csv string) []string {
	var values []string
	for _, v := range strings.Split(csv, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
