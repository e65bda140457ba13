package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"goldsaver_api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Scheme{},
		&models.Rate{},
		&models.Subscription{},
		&models.Payment{},
		&models.GatewayCallbackHistory{},
	))
	return db
}

func seedVerifiedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	user := models.User{
		Username:      "asha",
		Fullname:      "Asha Rao",
		PhoneNumber:   "9876543210",
		Email:         "asha@example.com",
		AadhaarNumber: "123456789012",
		PANNumber:     "ABCDE1234F",
		AadhaarImages: []string{"file-aadhaar-1"},
		PANImages:     []string{"file-pan-1"},
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedGoldAmountScheme(t *testing.T, db *gorm.DB) models.Scheme {
	t.Helper()

	scheme, err := models.NewScheme(models.SchemeParams{
		Name:        "Gold Saver",
		Type:        "gold",
		MinAmount:   500,
		MaxAmount:   50000,
		Duration:    11,
		AmountBased: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(scheme).Error)
	return *scheme
}

func seedGoldWeightScheme(t *testing.T, db *gorm.DB) models.Scheme {
	t.Helper()

	scheme, err := models.NewScheme(models.SchemeParams{
		Name:     "Gold Gram Saver",
		Type:     "gold",
		Duration: 11,
		Weight:   &models.WeightBounds{Min: 1, Max: 10},
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(scheme).Error)
	return *scheme
}

func seedDiamondScheme(t *testing.T, db *gorm.DB) models.Scheme {
	t.Helper()

	scheme, err := models.NewScheme(models.SchemeParams{
		Name:      "Diamond Elite",
		Type:      "diamond",
		MinAmount: 1000,
		MaxAmount: 100000,
		Duration:  11,
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(scheme).Error)
	return *scheme
}
