package dao

import (
	"fmt"
	"strings"

	"github.com/wso2/financial-services-consent-core/internal/models"
)

// sqlCondition pairs a rendered clause fragment with the bind values its
// placeholders consume, in placeholder order. Clause text and bind list
// are always derived from the same condition slice in one traversal, so
// values cannot silently bind to the wrong placeholder.
type sqlCondition struct {
	clause string
	args   []interface{}
}

// inPlaceholders returns a "?,?,...,?" list sized to n. n must be > 0.
func inPlaceholders(n int) string {
	return strings.Repeat("?,", n-1) + "?"
}

func toArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// nullableInt64 converts an optional bound to a bind value; an absent
// bound is bound as an explicit SQL NULL, never omitted, because the
// rendered range clause always references two placeholders.
func nullableInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// buildConsentSearchConditions assembles the WHERE conditions for a
// consent search in evaluation order: organization first, then each
// optional consent-level category (omitted entirely when its list is
// empty), then the user filter resolved against the authorization
// relation, then the updated-time range.
func buildConsentSearchConditions(params *models.ConsentSearchParams) []sqlCondition {
	conds := []sqlCondition{{
		clause: "C.ORG_ID = ?",
		args:   []interface{}{params.OrgID},
	}}

	if len(params.ConsentIDs) > 0 {
		conds = append(conds, sqlCondition{
			clause: fmt.Sprintf("C.CONSENT_ID IN (%s)", inPlaceholders(len(params.ConsentIDs))),
			args:   toArgs(params.ConsentIDs),
		})
	}

	if len(params.ClientIDs) > 0 {
		conds = append(conds, sqlCondition{
			clause: fmt.Sprintf("C.CLIENT_ID IN (%s)", inPlaceholders(len(params.ClientIDs))),
			args:   toArgs(params.ClientIDs),
		})
	}

	if len(params.ConsentTypes) > 0 {
		conds = append(conds, sqlCondition{
			clause: fmt.Sprintf("C.CONSENT_TYPE IN (%s)", inPlaceholders(len(params.ConsentTypes))),
			args:   toArgs(params.ConsentTypes),
		})
	}

	if len(params.ConsentStatuses) > 0 {
		conds = append(conds, sqlCondition{
			clause: fmt.Sprintf("C.CURRENT_STATUS IN (%s)", inPlaceholders(len(params.ConsentStatuses))),
			args:   toArgs(params.ConsentStatuses),
		})
	}

	if len(params.UserIDs) > 0 {
		conds = append(conds, sqlCondition{
			clause: fmt.Sprintf(
				"C.CONSENT_ID IN (SELECT CONSENT_ID FROM FS_CONSENT_AUTH_RESOURCE WHERE USER_ID IN (%s))",
				inPlaceholders(len(params.UserIDs))),
			args: toArgs(params.UserIDs),
		})
	}

	conds = append(conds,
		sqlCondition{
			clause: "C.UPDATED_TIME >= COALESCE(?, C.UPDATED_TIME)",
			args:   []interface{}{nullableInt64(params.FromTime)},
		},
		sqlCondition{
			clause: "C.UPDATED_TIME <= COALESCE(?, C.UPDATED_TIME)",
			args:   []interface{}{nullableInt64(params.ToTime)},
		},
	)

	return conds
}

// buildStatusAuditSearchConditions assembles the WHERE conditions for a
// status audit search with the same ordering discipline as the consent
// search: organization first, optional categories, then the action-time
// range with its two always-present placeholders.
func buildStatusAuditSearchConditions(params *models.StatusAuditSearchParams) []sqlCondition {
	conds := []sqlCondition{{
		clause: "ORG_ID = ?",
		args:   []interface{}{params.OrgID},
	}}

	if len(params.ConsentIDs) > 0 {
		conds = append(conds, sqlCondition{
			clause: fmt.Sprintf("CONSENT_ID IN (%s)", inPlaceholders(len(params.ConsentIDs))),
			args:   toArgs(params.ConsentIDs),
		})
	}

	if len(params.Statuses) > 0 {
		conds = append(conds, sqlCondition{
			clause: fmt.Sprintf("CURRENT_STATUS IN (%s)", inPlaceholders(len(params.Statuses))),
			args:   toArgs(params.Statuses),
		})
	}

	if len(params.ActionBy) > 0 {
		conds = append(conds, sqlCondition{
			clause: fmt.Sprintf("ACTION_BY IN (%s)", inPlaceholders(len(params.ActionBy))),
			args:   toArgs(params.ActionBy),
		})
	}

	if len(params.StatusAuditIDs) > 0 {
		conds = append(conds, sqlCondition{
			clause: fmt.Sprintf("STATUS_AUDIT_ID IN (%s)", inPlaceholders(len(params.StatusAuditIDs))),
			args:   toArgs(params.StatusAuditIDs),
		})
	}

	conds = append(conds,
		sqlCondition{
			clause: "ACTION_TIME >= COALESCE(?, ACTION_TIME)",
			args:   []interface{}{nullableInt64(params.FromTime)},
		},
		sqlCondition{
			clause: "ACTION_TIME <= COALESCE(?, ACTION_TIME)",
			args:   []interface{}{nullableInt64(params.ToTime)},
		},
	)

	return conds
}

// renderConditions produces the WHERE-clause text and the matching bind
// list from a single pass over the condition slice.
func renderConditions(conds []sqlCondition) (string, []interface{}) {
	clauses := make([]string, 0, len(conds))
	var args []interface{}
	for _, c := range conds {
		clauses = append(clauses, c.clause)
		args = append(args, c.args...)
	}
	return strings.Join(clauses, " AND "), args
}

// paginationClause renders the pagination fragment. Limit and offset are
// each independently optional and combined only when both are present;
// limitBeforeOffset controls the placeholder bind order for dialects that
// page with OFFSET ... FETCH NEXT instead of LIMIT ... OFFSET.
func paginationClause(limit, offset *int, limitBeforeOffset bool) (string, []interface{}) {
	switch {
	case limit != nil && offset != nil:
		if limitBeforeOffset {
			return " LIMIT ? OFFSET ?", []interface{}{*limit, *offset}
		}
		return " OFFSET ? ROWS FETCH NEXT ? ROWS ONLY", []interface{}{*offset, *limit}
	case limit != nil:
		return " LIMIT ?", []interface{}{*limit}
	case offset != nil:
		return " OFFSET ?", []interface{}{*offset}
	default:
		return "", nil
	}
}
