package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/questguild/questboard-api/internal/domain"
)

type CreateRewardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

func (req *CreateRewardRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Price, validation.Required, validation.Min(1)),
	)
}

type SubmitPurchaseRequest struct {
	StudentName  string `json:"student_name"`
	StudentGroup string `json:"student_group"`
	Quantity     int    `json:"quantity"`
	Comment      string `json:"comment"`
}

func (req *SubmitPurchaseRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.StudentName, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.StudentGroup, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(domain.MaxPurchaseQuantity)),
		validation.Field(&req.Comment, validation.Length(0, 200)),
	)
	if err != nil {
		return err
	}
	return nil
}

type PurchaseDecisionRequest struct {
	Decision string `json:"decision"`
}

func (req *PurchaseDecisionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Decision, validation.Required, validation.In("approve", "reject", "deliver")),
	)
}

type SetRewardActiveRequest struct {
	Active *bool `json:"active"`
}

func (req *SetRewardActiveRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Active, validation.NotNil),
	)
}
