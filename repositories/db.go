package repositories

import (
	"errors"
	"fmt"

	"gameserver-hub/models"
	"gameserver-hub/services"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and migrates every engine table.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Mission{},
		&models.UserMissionProgress{},
		&models.Notification{},
		&models.Server{},
		&models.Rating{},
		&models.StoreItem{},
		&models.UserPurchase{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// New wires the GORM implementation of every repository.
func New(db *gorm.DB) services.Repositories {
	return services.Repositories{
		Users:         NewUserRepository(db),
		Missions:      NewMissionRepository(db),
		Progress:      NewProgressRepository(db),
		Notifications: NewNotificationRepository(db),
		Servers:       NewServerRepository(db),
		Store:         NewStoreRepository(db),
	}
}

var (
	_ services.UserRepository         = (*UserRepository)(nil)
	_ services.MissionRepository      = (*MissionRepository)(nil)
	_ services.ProgressRepository     = (*ProgressRepository)(nil)
	_ services.NotificationRepository = (*NotificationRepository)(nil)
	_ services.ServerRepository       = (*ServerRepository)(nil)
	_ services.StoreRepository        = (*StoreRepository)(nil)
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}
