package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nairobitech/duka/app/repositories"
	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/pkg/bind"
	"github.com/nairobitech/duka/pkg/response"
	"github.com/nairobitech/duka/pkg/router"
	"github.com/nairobitech/duka/pkg/storage"
)

// maxImageBytes caps product image uploads at 8 MB.
const maxImageBytes = 8 << 20

// ProductController handles public catalogue reads and admin product writes.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController() *ProductController {
	return &ProductController{catalog: services.NewCatalogService()}
}

// Index lists active products, filterable by category, search, limit and offset.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.ProductFilter{
		CategoryID: q.Get("categoryId"),
		Search:     q.Get("search"),
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = n
	}

	products, err := c.catalog.Products(filter)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, products)
}

// Featured lists the top-rated active products (default 8).
func (c *ProductController) Featured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := c.catalog.Featured(limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, products)
}

// Show returns a single product.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.catalog.Product(router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}

// Store creates a product. Admin only.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.CreateProduct(in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, product)
}

// Update edits a product. Admin only.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.UpdateProduct(router.Param(r, "id"), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}

// Destroy removes a product. Admin only.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.DeleteProduct(router.Param(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Product deleted"})
}

// UploadImage stores a multipart "image" file on the configured disk and
// appends its URL to the product. Admin only.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "id")
	if _, err := c.catalog.Product(id); err != nil {
		fail(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		response.Error(w, http.StatusUnprocessableEntity, "unsupported image type")
		return
	}

	path := fmt.Sprintf("products/%s/%s%s", id, uuid.NewString(), ext)
	if err := storage.PutStream(path, file); err != nil {
		fail(w, r, fmt.Errorf("store image: %w", err))
		return
	}

	product, err := c.catalog.AppendImage(id, storage.URL(path))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}
