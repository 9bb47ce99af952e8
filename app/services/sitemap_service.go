package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/nairobitech/duka/app/repositories"
	"github.com/nairobitech/duka/config"
)

// SitemapService renders the /sitemap.xml urlset: static pages, one URL
// per category filter and one per product.
type SitemapService struct {
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
}

func NewSitemapService() *SitemapService {
	return &SitemapService{
		categories: repositories.NewCategoryRepository(),
		products:   repositories.NewProductRepository(),
	}
}

type sitemapURL struct {
	loc        string
	lastmod    string
	changefreq string
	priority   string
}

var staticPages = []struct {
	path       string
	changefreq string
	priority   string
}{
	{"/", "daily", "1.0"},
	{"/products", "daily", "0.9"},
	{"/about", "monthly", "0.6"},
	{"/contact", "monthly", "0.6"},
	{"/shipping", "monthly", "0.5"},
	{"/returns", "monthly", "0.5"},
	{"/warranty", "monthly", "0.5"},
	{"/privacy", "yearly", "0.3"},
	{"/terms", "yearly", "0.3"},
}

// XML renders the sitemap document.
func (s *SitemapService) XML() (string, error) {
	base := strings.TrimSuffix(config.AppURL(), "/")
	today := time.Now().UTC().Format("2006-01-02")

	var urls []sitemapURL
	for _, p := range staticPages {
		urls = append(urls, sitemapURL{
			loc: base + p.path, lastmod: today,
			changefreq: p.changefreq, priority: p.priority,
		})
	}

	categories, err := s.categories.All()
	if err != nil {
		return "", fmt.Errorf("sitemap: list categories: %w", err)
	}
	for _, c := range categories {
		urls = append(urls, sitemapURL{
			loc: base + "/products?category=" + c.Slug, lastmod: today,
			changefreq: "weekly", priority: "0.7",
		})
	}

	products, err := s.products.Active(repositories.ProductFilter{Limit: 1000})
	if err != nil {
		return "", fmt.Errorf("sitemap: list products: %w", err)
	}
	for _, p := range products {
		lastmod := today
		if !p.UpdatedAt.IsZero() {
			lastmod = p.UpdatedAt.UTC().Format("2006-01-02")
		}
		urls = append(urls, sitemapURL{
			loc: base + "/products/" + p.ID, lastmod: lastmod,
			changefreq: "weekly", priority: "0.8",
		})
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"` + "\n")
	b.WriteString(`        xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">` + "\n")
	for _, u := range urls {
		fmt.Fprintf(&b, "  <url>\n    <loc>%s</loc>\n    <lastmod>%s</lastmod>\n    <changefreq>%s</changefreq>\n    <priority>%s</priority>\n  </url>\n",
			u.loc, u.lastmod, u.changefreq, u.priority)
	}
	b.WriteString("</urlset>")

	return b.String(), nil
}
