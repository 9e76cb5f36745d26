// seed-manager creates or updates the initial manager user so a fresh
// deployment can log in.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-manager
//
// Override the defaults with SEED_MANAGER_USERNAME / SEED_MANAGER_PASSWORD.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/models"
	"github.com/stitchcraft/pos_backend/utils"
	"gorm.io/gorm"
)

const (
	defaultUsername = "manager"
	defaultPassword = "ChangeMe123!"
	defaultName     = "Store Manager"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	username := os.Getenv("SEED_MANAGER_USERNAME")
	if username == "" {
		username = defaultUsername
	}
	password := os.Getenv("SEED_MANAGER_PASSWORD")
	if password == "" {
		password = defaultPassword
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Username: username,
			Name:     defaultName,
			Password: hashedStr,
			IsActive: utils.NewTrue(),
			Role:     models.UserRoleManager,
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create manager user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created manager user: username=%q\n", username)
		return
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Updates(map[string]any{
		"password":  hashedStr,
		"is_active": utils.NewTrue(),
		"role":      models.UserRoleManager,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update manager user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated manager user: username=%q\n", username)
}
