package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/questguild/questboard-api/internal/api/handler/v1/request"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := request.SignupRequest{
		Email:           "gm@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
		Name:            "Guild Master",
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("password needs a digit", func(t *testing.T) {
		req := valid
		req.Password = "passwords"
		req.ConfirmPassword = "passwords"
		assert.Error(t, req.Validate())
	})

	t.Run("password needs a letter", func(t *testing.T) {
		req := valid
		req.Password = "12345678"
		req.ConfirmPassword = "12345678"
		assert.Error(t, req.Validate())
	})

	t.Run("password needs 8 characters", func(t *testing.T) {
		req := valid
		req.Password = "pass1"
		req.ConfirmPassword = "pass1"
		assert.Error(t, req.Validate())
	})

	t.Run("confirmation must match", func(t *testing.T) {
		req := valid
		req.ConfirmPassword = "password2"
		assert.Error(t, req.Validate())
	})

	t.Run("email must be well formed", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"
		assert.Error(t, req.Validate())
	})
}

func TestCreateOrderRequest_Validate(t *testing.T) {
	valid := request.CreateOrderRequest{
		Title:    "clean the library",
		Rank:     "B",
		Points:   60,
		MaxSlots: 3,
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("rank must be known", func(t *testing.T) {
		req := valid
		req.Rank = "Z"
		assert.Error(t, req.Validate())
	})

	t.Run("slots start at one", func(t *testing.T) {
		req := valid
		req.MaxSlots = 0
		assert.Error(t, req.Validate())
	})

	t.Run("points start at one", func(t *testing.T) {
		req := valid
		req.Points = 0
		assert.Error(t, req.Validate())
	})
}

func TestSubmitPurchaseRequest_Validate(t *testing.T) {
	valid := request.SubmitPurchaseRequest{
		StudentName:  "Ana",
		StudentGroup: "3B",
		Quantity:     2,
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("quantity is capped", func(t *testing.T) {
		req := valid
		req.Quantity = 11
		assert.Error(t, req.Validate())
	})

	t.Run("student identity is required", func(t *testing.T) {
		req := valid
		req.StudentGroup = ""
		assert.Error(t, req.Validate())
	})
}

func TestClaimDecisionRequest_Validate(t *testing.T) {
	assert.NoError(t, (&request.ClaimDecisionRequest{Decision: "approve"}).Validate())
	assert.NoError(t, (&request.ClaimDecisionRequest{Decision: "reject"}).Validate())
	assert.Error(t, (&request.ClaimDecisionRequest{Decision: "deliver"}).Validate())
	assert.Error(t, (&request.ClaimDecisionRequest{}).Validate())
}

func TestPurchaseDecisionRequest_Validate(t *testing.T) {
	assert.NoError(t, (&request.PurchaseDecisionRequest{Decision: "deliver"}).Validate())
	assert.Error(t, (&request.PurchaseDecisionRequest{Decision: "refund"}).Validate())
}
