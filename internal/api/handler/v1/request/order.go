package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/questguild/questboard-api/internal/domain"
)

type CreateOrderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Rank        string `json:"rank"`
	Points      int    `json:"points"`
	MaxSlots    int    `json:"max_slots"`
}

func (req *CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Rank, validation.Required, validation.In(
			string(domain.RankSS), string(domain.RankS), string(domain.RankA),
			string(domain.RankB), string(domain.RankC), string(domain.RankD),
			string(domain.RankE), string(domain.RankF),
		)),
		validation.Field(&req.Points, validation.Required, validation.Min(1)),
		validation.Field(&req.MaxSlots, validation.Required, validation.Min(1)),
	)
}

type SubmitClaimRequest struct {
	StudentName  string `json:"student_name"`
	StudentGroup string `json:"student_group"`
	Comment      string `json:"comment"`
}

func (req *SubmitClaimRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.StudentName, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.StudentGroup, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Comment, validation.Length(0, 200)),
	)
	if err != nil {
		return err
	}
	return nil
}

type ClaimDecisionRequest struct {
	Decision string `json:"decision"`
}

func (req *ClaimDecisionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Decision, validation.Required, validation.In("approve", "reject")),
	)
}
