package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"social-publisher-platform/internal/config"
	"social-publisher-platform/internal/logger"
	"social-publisher-platform/internal/platform"
	"social-publisher-platform/internal/store"
	"social-publisher-platform/models"
)

// CredentialAlertEvaluator scans for credentials nearing their expiry date
// and emails the owner once per credential lifetime. Re-saving a credential
// resets the alert.
type CredentialAlertEvaluator struct {
	config      config.Config
	emailSender EmailSender
	credentials *store.CredentialStore
	usersCol    *mongo.Collection
}

func NewCredentialAlertEvaluator(cfg config.Config, emailSender EmailSender, credentials *store.CredentialStore, usersCol *mongo.Collection) *CredentialAlertEvaluator {
	return &CredentialAlertEvaluator{
		config:      cfg,
		emailSender: emailSender,
		credentials: credentials,
		usersCol:    usersCol,
	}
}

// ScanAll finds credentials expiring within the configured warning window
// and sends one alert for each. Individual send failures are logged and
// retried on the next scan.
func (a *CredentialAlertEvaluator) ScanAll(ctx context.Context) error {
	deadline := time.Now().AddDate(0, 0, a.config.ExpiryWarnDays)

	expiring, err := a.credentials.ExpiringBefore(ctx, deadline)
	if err != nil {
		return fmt.Errorf("expiry scan failed: %w", err)
	}

	for _, cred := range expiring {
		if err := a.notify(ctx, cred); err != nil {
			logger.Error("expiry alert failed", "credential_id", cred.ID.Hex(), "type", cred.Type, "error", err)
			continue
		}

		if err := a.credentials.MarkExpiryAlerted(ctx, cred.ID); err != nil {
			logger.Error("failed to mark credential alerted", "credential_id", cred.ID.Hex(), "error", err)
		}
	}

	return nil
}

func (a *CredentialAlertEvaluator) notify(ctx context.Context, cred models.Credential) error {
	var user models.User
	if err := a.usersCol.FindOne(ctx, bson.M{"_id": cred.UserID}).Decode(&user); err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	if user.Email == "" && len(a.config.AdminEmails) == 0 {
		return fmt.Errorf("user %s has no email and no admin addresses configured", user.Username)
	}

	daysLeft := 0
	if cred.ExpiryDate != nil {
		daysLeft = int(time.Until(*cred.ExpiryDate).Hours() / 24)
		if daysLeft < 0 {
			daysLeft = 0
		}
	}

	data := ExpiryAlertData{
		UserName:     user.Name,
		PlatformName: platform.DisplayName(cred.Type),
		DaysLeft:     daysLeft,
	}
	if cred.ExpiryDate != nil {
		data.ExpiryDate = *cred.ExpiryDate
	}

	return a.emailSender.SendExpiryAlert(user.Email, data)
}
