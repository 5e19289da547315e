package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type productInput struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Price    float64  `json:"price" validate:"gte=0"`
	Stock    *int     `json:"stock" validate:"nullable,gte=0"`
	OldPrice *float64 `json:"old_price" validate:"nullable,gte=0"`
	Status   string   `json:"status" validate:"nullable,in=draft,review,published,rejected"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(&registerInput{
		Email:                "user@example.com",
		Password:             "secret-password",
		PasswordConfirmation: "secret-password",
	})
	assert.False(t, HasErrors(errs), "expected no errors, got %v", errs)
}

func TestStructRequired(t *testing.T) {
	errs := Struct(&registerInput{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestStructEmailFormat(t *testing.T) {
	errs := Struct(&registerInput{Email: "not-an-email", Password: "longenough", PasswordConfirmation: "longenough"})
	assert.Contains(t, errs, "email")
}

func TestStructConfirmed(t *testing.T) {
	errs := Struct(&registerInput{
		Email:                "user@example.com",
		Password:             "secret-password",
		PasswordConfirmation: "different",
	})
	assert.Contains(t, errs, "password")
}

func TestStructNumericBounds(t *testing.T) {
	errs := Struct(&productInput{Name: "Lamp", Price: -5})
	assert.Contains(t, errs, "price")

	errs = Struct(&productInput{Name: "Lamp", Price: 10})
	assert.False(t, HasErrors(errs))
}

func TestStructPointerNumericBounds(t *testing.T) {
	stock := -5
	oldPrice := -10.0
	errs := Struct(&productInput{Name: "Lamp", Price: 10, Stock: &stock, OldPrice: &oldPrice})
	assert.Contains(t, errs, "stock")
	assert.Contains(t, errs, "old_price")

	stock = 3
	oldPrice = 129.99
	errs = Struct(&productInput{Name: "Lamp", Price: 10, Stock: &stock, OldPrice: &oldPrice})
	assert.False(t, HasErrors(errs), "expected no errors, got %v", errs)

	// Nil pointers stay optional.
	errs = Struct(&productInput{Name: "Lamp", Price: 10})
	assert.False(t, HasErrors(errs))
}

func TestStructInRule(t *testing.T) {
	errs := Struct(&productInput{Name: "Lamp", Status: "pending"})
	assert.Contains(t, errs, "status")

	for _, s := range []string{"draft", "review", "published", "rejected"} {
		errs := Struct(&productInput{Name: "Lamp", Status: s})
		assert.False(t, HasErrors(errs), "status %q should be accepted", s)
	}
}

func TestStructNullableSkips(t *testing.T) {
	errs := Struct(&productInput{Name: "Lamp"})
	assert.False(t, HasErrors(errs))
}
