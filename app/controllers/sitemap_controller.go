package controllers

import (
	"net/http"

	"github.com/nairobitech/duka/app/services"
)

// SitemapController serves /sitemap.xml.
type SitemapController struct {
	service *services.SitemapService
}

func NewSitemapController() *SitemapController {
	return &SitemapController{service: services.NewSitemapService()}
}

// Show renders the sitemap urlset.
func (c *SitemapController) Show(w http.ResponseWriter, r *http.Request) {
	xml, err := c.service.XML()
	if err != nil {
		http.Error(w, "Error generating sitemap", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml)) //nolint:errcheck
}
