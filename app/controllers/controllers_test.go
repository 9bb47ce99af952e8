package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/routes"
	"github.com/nairobitech/duka/pkg/auth"
	"github.com/nairobitech/duka/pkg/database"
	"github.com/nairobitech/duka/pkg/router"
	"github.com/nairobitech/duka/pkg/session"
)

var dbSeq int64

// newTestServer stands up the real route table over a fresh in-memory
// database.
func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&session.Record{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	r := router.New()
	r.Use(session.Middleware(session.DefaultOptions()))
	require.NoError(t, routes.RegisterAPI(r))

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, FirstName: "Test", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func bearer(t *testing.T, user models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

func decodeData(t *testing.T, res *http.Response, dest interface{}) {
	t.Helper()
	defer res.Body.Close()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func TestOrdersRequireAuthentication(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/api/orders")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRegisterEstablishesSessionCookie(t *testing.T) {
	srv, _ := newTestServer(t)

	res := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"email":     "jane@example.com",
		"firstName": "Jane",
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == "duka_session" {
			cookie = c
		}
	}
	res.Body.Close()
	require.NotNil(t, cookie, "register must set the session cookie")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/user", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	userRes, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, userRes.StatusCode)

	var user models.User
	decodeData(t, userRes, &user)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestRegisterShortPasswordFailsValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	res := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"email":     "jane@example.com",
		"firstName": "Jane",
		"password":  "short",
	})
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestOrderListScopedByRole(t *testing.T) {
	srv, db := newTestServer(t)
	alice := seedUser(t, db, "alice@example.com", "user")
	admin := seedUser(t, db, "admin@example.com", "admin")
	category := models.Category{Name: "Phones", Slug: "phones"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{Name: "Galaxy", CategoryID: category.ID, SKU: "P1", Status: models.ProductActive}
	require.NoError(t, db.Create(&product).Error)

	// Alice places an order; a second user places another.
	bob := seedUser(t, db, "bob@example.com", "user")
	for _, u := range []models.User{alice, bob} {
		res := doJSON(t, http.MethodPost, srv.URL+"/api/orders", bearer(t, u), map[string]interface{}{
			"items":           []map[string]interface{}{{"productId": product.ID, "quantity": 1}},
			"shippingAddress": "Moi Avenue",
			"phone":           "0700000000",
		})
		require.Equal(t, http.StatusCreated, res.StatusCode)
		res.Body.Close()
	}

	var own []models.Order
	res := doJSON(t, http.MethodGet, srv.URL+"/api/orders", bearer(t, alice), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	decodeData(t, res, &own)
	require.Len(t, own, 1)
	assert.Equal(t, alice.ID, own[0].UserID)

	var all []models.Order
	res = doJSON(t, http.MethodGet, srv.URL+"/api/orders", bearer(t, admin), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	decodeData(t, res, &all)
	assert.Len(t, all, 2)
}

func TestStatusEndpointEnforcesRoleAndLifecycle(t *testing.T) {
	srv, db := newTestServer(t)
	user := seedUser(t, db, "alice@example.com", "user")
	admin := seedUser(t, db, "admin@example.com", "admin")
	category := models.Category{Name: "Phones", Slug: "phones"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{Name: "Galaxy", CategoryID: category.ID, SKU: "P1", Status: models.ProductActive}
	require.NoError(t, db.Create(&product).Error)

	res := doJSON(t, http.MethodPost, srv.URL+"/api/orders", bearer(t, user), map[string]interface{}{
		"items":           []map[string]interface{}{{"productId": product.ID, "quantity": 1}},
		"shippingAddress": "Moi Avenue",
		"phone":           "0700000000",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var order models.Order
	decodeData(t, res, &order)

	statusURL := srv.URL + "/api/orders/" + order.ID + "/status"

	// Not an admin.
	res = doJSON(t, http.MethodPut, statusURL, bearer(t, user), map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	res.Body.Close()

	// Admin, but the lifecycle forbids pending → shipped.
	res = doJSON(t, http.MethodPut, statusURL, bearer(t, admin), map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()

	// Unknown status word.
	res = doJSON(t, http.MethodPut, statusURL, bearer(t, admin), map[string]string{"status": "refunded"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	res.Body.Close()

	// Valid move.
	res = doJSON(t, http.MethodPut, statusURL, bearer(t, admin), map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var updated models.Order
	decodeData(t, res, &updated)
	assert.Equal(t, models.OrderConfirmed, updated.Status)
}

func TestCategoryWritesAreAdminOnly(t *testing.T) {
	srv, db := newTestServer(t)
	user := seedUser(t, db, "alice@example.com", "user")
	admin := seedUser(t, db, "admin@example.com", "admin")

	payload := map[string]string{"name": "Audio", "slug": "audio"}

	res := doJSON(t, http.MethodPost, srv.URL+"/api/categories", bearer(t, user), payload)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	res.Body.Close()

	res = doJSON(t, http.MethodPost, srv.URL+"/api/categories", bearer(t, admin), payload)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var category models.Category
	decodeData(t, res, &category)
	assert.Equal(t, "audio", category.Slug)
}

func TestDeletedUserSessionIsRejected(t *testing.T) {
	srv, db := newTestServer(t)

	res := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"email":     "gone@example.com",
		"firstName": "Ghost",
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == "duka_session" {
			cookie = c
		}
	}
	res.Body.Close()
	require.NotNil(t, cookie)

	require.NoError(t, db.Where("email = ?", "gone@example.com").Delete(&models.User{}).Error)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/user", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	userRes, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer userRes.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, userRes.StatusCode)
}

func TestGraphqlProductsQuery(t *testing.T) {
	srv, db := newTestServer(t)
	category := models.Category{Name: "Phones", Slug: "phones"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{Name: "Galaxy", CategoryID: category.ID, SKU: "P1", Status: models.ProductActive}
	require.NoError(t, db.Create(&product).Error)

	res := doJSON(t, http.MethodPost, srv.URL+"/api/graphql", "", map[string]string{
		"query": `{ products { id name } }`,
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	defer res.Body.Close()

	var result struct {
		Data struct {
			Products []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&result))
	require.Len(t, result.Data.Products, 1)
	assert.Equal(t, "Galaxy", result.Data.Products[0].Name)
}
