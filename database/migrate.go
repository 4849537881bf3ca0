package database

import (
	"fmt"
	"time"

	"artwala_backend/internal/config"
	"artwala_backend/internal/logger"
	"artwala_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Models - все таблицы жизненного цикла заказа, в порядке зависимостей
func Models() []interface{} {
	return []interface{}{
		&models.CommissionRequest{},
		&models.CommissionProposal{},
		&models.CommissionContract{},
		&models.CommissionMilestone{},
		&models.CommissionPayment{},
		&models.CommissionReview{},
	}
}

// ConnectGorm открывает пул соединений с Postgres по настройкам из конфига
func ConnectGorm(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		// gorm.ErrDuplicatedKey вместо текста ошибки драйвера
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("AutoMigrate completed", "tables", len(Models()))
	return nil
}
