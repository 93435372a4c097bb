package dao

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/wso2/financial-services-consent-core/internal/database"
)

// CascadeStep records the outcome of one statement of a cascading delete
type CascadeStep struct {
	Name         string `json:"name"`
	RowsAffected int64  `json:"rowsAffected"`
}

// CascadeResult enumerates the cascade steps that ran for a consent
// deletion. FailedStep is empty when every step committed; otherwise it
// names the step whose failure rolled the transaction back, and Steps
// holds only the statements that had already executed.
type CascadeResult struct {
	ConsentID  string        `json:"consentId"`
	Steps      []CascadeStep `json:"steps"`
	FailedStep string        `json:"failedStep,omitempty"`
}

// cascadeStatements are executed leaf-first so no child row ever outlives
// its parent: mappings, authorizations, attributes, file, audit trail,
// then the consent itself.
var cascadeStatements = []struct {
	name  string
	query string
}{
	{
		name: "delete consent mappings",
		query: `DELETE FROM FS_CONSENT_MAPPING
			WHERE AUTH_ID IN (
				SELECT AUTH_ID FROM FS_CONSENT_AUTH_RESOURCE WHERE CONSENT_ID = ? AND ORG_ID = ?
			)`,
	},
	{
		name:  "delete auth resources",
		query: `DELETE FROM FS_CONSENT_AUTH_RESOURCE WHERE CONSENT_ID = ? AND ORG_ID = ?`,
	},
	{
		name:  "delete consent attributes",
		query: `DELETE FROM FS_CONSENT_ATTRIBUTE WHERE CONSENT_ID = ? AND ORG_ID = ?`,
	},
	{
		name:  "delete consent file",
		query: `DELETE FROM FS_CONSENT_FILE WHERE CONSENT_ID = ? AND ORG_ID = ?`,
	},
	{
		name:  "delete status audits",
		query: `DELETE FROM FS_CONSENT_STATUS_AUDIT WHERE CONSENT_ID = ? AND ORG_ID = ?`,
	},
	{
		name:  "delete consent",
		query: `DELETE FROM FS_CONSENT WHERE CONSENT_ID = ? AND ORG_ID = ?`,
	},
}

// DeleteCascade deletes a consent and everything hanging off it inside
// one transaction. Any failure rolls the whole transaction back; the
// returned result reports which steps ran and how many rows each one
// removed, so callers never need to re-query to learn what happened.
func (dao *ConsentDAO) DeleteCascade(ctx context.Context, logger *logrus.Logger, consentID, orgID string) (*CascadeResult, error) {
	result := &CascadeResult{
		ConsentID: consentID,
		Steps:     []CascadeStep{},
	}

	err := dao.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		for _, stmt := range cascadeStatements {
			execResult, err := tx.ExecContext(ctx, stmt.query, consentID, orgID)
			if err != nil {
				result.FailedStep = stmt.name
				logger.WithError(err).WithFields(logrus.Fields{
					"consent_id": consentID,
					"step":       stmt.name,
				}).Error("Cascading consent delete failed, rolling back")
				return deletionError(stmt.name, err)
			}

			rows, err := execResult.RowsAffected()
			if err != nil {
				result.FailedStep = stmt.name
				return deletionError(stmt.name, err)
			}

			result.Steps = append(result.Steps, CascadeStep{
				Name:         stmt.name,
				RowsAffected: rows,
			})

			logger.WithFields(logrus.Fields{
				"consent_id": consentID,
				"step":       stmt.name,
				"rows":       rows,
			}).Debug("Cascade step executed")
		}

		// The consent row itself must have existed.
		if last := result.Steps[len(result.Steps)-1]; last.RowsAffected == 0 {
			result.FailedStep = last.Name
			return deletionError("delete consent", notFoundError("delete consent", consentID))
		}

		return nil
	})

	if err != nil {
		return result, err
	}

	return result, nil
}
