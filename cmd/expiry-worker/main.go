package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wso2/financial-services-consent-core/internal/config"
	"github.com/wso2/financial-services-consent-core/internal/dao"
	"github.com/wso2/financial-services-consent-core/internal/database"
	"github.com/wso2/financial-services-consent-core/internal/models"
	"github.com/wso2/financial-services-consent-core/pkg/utils"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting consent expiry worker...")

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
		"interval":    cfg.Worker.Interval.String(),
	}).Info("Configuration loaded successfully")

	db, err := database.Initialize(&cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.HealthCheck(ctx); err != nil {
		cancel()
		logger.WithError(err).Fatal("Database health check failed")
	}
	cancel()

	consentDAO := dao.NewConsentDAO(db, cfg.Consent.DefaultOrgID, cfg.Database.LimitBeforeOffset())
	statusAuditDAO := dao.NewStatusAuditDAO(db, cfg.Consent.DefaultOrgID, cfg.Database.LimitBeforeOffset())

	ticker := time.NewTicker(cfg.Worker.Interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	expireConsents(consentDAO, statusAuditDAO, cfg, logger)

	for {
		select {
		case <-ticker.C:
			expireConsents(consentDAO, statusAuditDAO, cfg, logger)
		case sig := <-quit:
			logger.WithField("signal", sig.String()).Info("Shutting down consent expiry worker")
			return
		}
	}
}

// expireConsents runs one expiry scan and transitions every consent whose
// expiry attribute has passed to the configured expired status, recording
// a status audit entry for each transition.
func expireConsents(consentDAO *dao.ConsentDAO, statusAuditDAO *dao.StatusAuditDAO, cfg *config.Config, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	candidates, err := consentDAO.GetExpiringConsents(ctx, cfg.Consent.DefaultOrgID, cfg.Consent.ExpiryEligibleStatuses)
	if err != nil {
		logger.WithError(err).Error("Expiry scan failed")
		return
	}

	logger.WithField("candidates", len(candidates)).Debug("Expiry scan completed")

	now := utils.CurrentEpochSeconds()
	expired := 0

	for _, candidate := range candidates {
		expiryValue, ok := candidate.Attributes[models.AttributeExpiryTime]
		if !ok {
			continue
		}

		expiryTime, err := strconv.ParseInt(expiryValue, 10, 64)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"consent_id":   candidate.ConsentID,
				"expiry_value": expiryValue,
			}).Warn("Skipping consent with unparsable expiry attribute")
			continue
		}

		if expiryTime > now {
			continue
		}

		if err := consentDAO.UpdateStatus(ctx, candidate.ConsentID, candidate.OrgID, cfg.Consent.ExpiredStatus, now); err != nil {
			logger.WithError(err).WithField("consent_id", candidate.ConsentID).Error("Failed to expire consent")
			continue
		}

		audit := &models.ConsentStatusAudit{
			ConsentID:      candidate.ConsentID,
			CurrentStatus:  cfg.Consent.ExpiredStatus,
			PreviousStatus: candidate.CurrentStatus,
			Reason:         "Consent validity period elapsed",
			ActionBy:       "expiry-worker",
			OrgID:          candidate.OrgID,
		}
		if err := statusAuditDAO.Create(ctx, audit); err != nil {
			logger.WithError(err).WithField("consent_id", candidate.ConsentID).Error("Failed to record expiry audit")
		}

		expired++
	}

	if expired > 0 {
		logger.WithField("expired", expired).Info("Expired consents transitioned")
	}
}
