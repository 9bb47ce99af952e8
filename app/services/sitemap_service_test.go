package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/config"
)

func TestSitemapContainsCategoryAndProductURLs(t *testing.T) {
	db := setupDB(t)
	category := seedCategory(t, db, "Phones", "phones")
	active := seedProduct(t, db, "Galaxy", "100.00", category.ID)

	inactive := seedProduct(t, db, "Old Model", "10.00", category.ID)
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", inactive.ID).
		Update("status", models.ProductInactive).Error)

	xml, err := services.NewSitemapService().XML()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, xml, "<urlset")
	assert.Contains(t, xml, "/products?category=phones")
	assert.Contains(t, xml, "/products/"+active.ID)
	assert.NotContains(t, xml, "/products/"+inactive.ID, "inactive products stay out of the sitemap")

	// Static pages are always present.
	base := config.AppURL()
	for _, page := range []string{"/about", "/contact", "/shipping", "/returns", "/warranty", "/privacy", "/terms"} {
		assert.Contains(t, xml, "<loc>"+base+page+"</loc>")
	}
}
