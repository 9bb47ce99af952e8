package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nairobitech/duka/pkg/validate"
)

// registerInput mirrors the shape the storefront signup form posts.
type registerInput struct {
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"confirmed"`
	FirstName            string `json:"firstName"             validate:"required,max=50"`
	Role                 string `json:"role"                  validate:"nullable,in=user,admin"`
	Website              string `json:"website"               validate:"nullable,url"`
}

func TestStructPassesValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Email:                "wanjiku@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		FirstName:            "Wanjiku",
		Role:                 "user",
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestStructKeysErrorsByJSONName(t *testing.T) {
	errs := validate.Struct(registerInput{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "firstName")
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	assert.Contains(t, validate.Struct(in{Email: "not-an-email"}), "email")
	assert.Empty(t, validate.Struct(in{Email: "orders@duka.africa"}))
}

func TestMinMeasuresStringLength(t *testing.T) {
	type in struct {
		Password string `json:"password" validate:"required,min=6"`
	}
	assert.Contains(t, validate.Struct(in{Password: "short"}), "password")
	assert.Empty(t, validate.Struct(in{Password: "longenough"}))
}

func TestMinMeasuresNumericValue(t *testing.T) {
	type in struct {
		Qty int `json:"quantity" validate:"required,min=1,max=99"`
	}
	assert.Contains(t, validate.Struct(in{Qty: 100}), "quantity")
	assert.Empty(t, validate.Struct(in{Qty: 3}))
}

func TestInRuleKeepsListParamWhole(t *testing.T) {
	// The role list contains commas; the rule after it must still apply.
	type in struct {
		Role string `json:"role" validate:"required,in=user,admin,max=10"`
	}
	assert.Contains(t, validate.Struct(in{Role: "superadmin"}), "role")
	assert.Empty(t, validate.Struct(in{Role: "admin"}))
}

func TestConfirmedRule(t *testing.T) {
	type in struct {
		Password             string `json:"password"              validate:"required,min=6"`
		PasswordConfirmation string `json:"password_confirmation" validate:"confirmed"`
	}
	errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "different"})
	assert.Contains(t, errs, "password_confirmation")

	errs = validate.Struct(in{Password: "secret123", PasswordConfirmation: "secret123"})
	assert.Empty(t, errs)
}

func TestNullableSkipsRemainingRules(t *testing.T) {
	type in struct {
		Website string `json:"website" validate:"nullable,url"`
	}
	assert.Empty(t, validate.Struct(in{Website: ""}))
	assert.Contains(t, validate.Struct(in{Website: "not-a-url"}), "website")
	assert.Empty(t, validate.Struct(in{Website: "https://duka.africa"}))
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Rating int `json:"rating" validate:"required,between=1,5"`
	}
	assert.Contains(t, validate.Struct(in{Rating: 6}), "rating")
	assert.Empty(t, validate.Struct(in{Rating: 4}))
}

func TestFirstFailingRuleWins(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email,max=5"`
	}
	errs := validate.Struct(in{Email: "bad"})
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
}

func TestAlphaDashRule(t *testing.T) {
	type in struct {
		Slug string `json:"slug" validate:"required,alpha_dash"`
	}
	assert.Empty(t, validate.Struct(in{Slug: "wireless-earbuds_v2"}))
	assert.Contains(t, validate.Struct(in{Slug: "bad slug!"}), "slug")
}

func TestStructValidatesSliceElements(t *testing.T) {
	type line struct {
		ProductID string `json:"productId" validate:"required"`
		Quantity  int    `json:"quantity"  validate:"required,gte=1"`
	}
	type checkout struct {
		Items []line `json:"items" validate:"required"`
		Phone string `json:"phone" validate:"required"`
	}

	errs := validate.Struct(checkout{
		Items: []line{
			{ProductID: "p-1", Quantity: 2},
			{ProductID: "p-2", Quantity: -3},
			{Quantity: 1},
		},
		Phone: "0700000000",
	})

	assert.NotContains(t, errs, "items.0.quantity")
	assert.Equal(t, "The quantity must be greater than or equal to 1.", errs["items.1.quantity"])
	assert.Equal(t, "The productId field is required.", errs["items.2.productId"])
}

func TestStructValidSliceElementsPass(t *testing.T) {
	type line struct {
		Quantity int `json:"quantity" validate:"required,gte=1"`
	}
	type checkout struct {
		Items []line `json:"items" validate:"required"`
	}

	errs := validate.Struct(checkout{Items: []line{{Quantity: 1}, {Quantity: 5}}})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}
