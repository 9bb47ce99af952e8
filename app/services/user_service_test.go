package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/services"
)

func TestDeleteRefusesLastAdmin(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "admin@example.com", "admin")
	seedUser(t, db, "customer@example.com", "user")

	svc := services.NewUserService()
	err := svc.Delete(admin.ID)
	require.ErrorIs(t, err, services.ErrLastAdmin)

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", "admin").Count(&admins).Error)
	assert.EqualValues(t, 1, admins, "the admin account must survive")
}

func TestDeleteAllowsAdminWhenAnotherRemains(t *testing.T) {
	db := setupDB(t)
	first := seedUser(t, db, "admin@example.com", "admin")
	seedUser(t, db, "backup@example.com", "admin")

	svc := services.NewUserService()
	require.NoError(t, svc.Delete(first.ID))

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", "admin").Count(&admins).Error)
	assert.EqualValues(t, 1, admins)
}

func TestDeleteRegularUser(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "admin@example.com", "admin")
	customer := seedUser(t, db, "customer@example.com", "user")

	svc := services.NewUserService()
	require.NoError(t, svc.Delete(customer.ID))

	var total int64
	require.NoError(t, db.Model(&models.User{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func TestDeleteUnknownUser(t *testing.T) {
	setupDB(t)

	svc := services.NewUserService()
	assert.Error(t, svc.Delete("does-not-exist"))
}
