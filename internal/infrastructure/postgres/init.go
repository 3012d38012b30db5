package postgres

import (
	"log"

	"github.com/workhive/payment-integrity-service/internal/config"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.PaymentConfig) *gorm.DB {
	dsn := cfg.PaymentDB.Dsn
	// TranslateError lets repositories match gorm.ErrDuplicatedKey on
	// unique index violations
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.RegistrationPlanModel{}, &models.EntitlementModel{}, &models.PaymentAttemptModel{}, &models.WebhookReceiptModel{})

	return db
}
