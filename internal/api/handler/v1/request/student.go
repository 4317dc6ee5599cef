package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AdjustPointsRequest struct {
	TotalPoints *int `json:"total_points"`
}

func (req *AdjustPointsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TotalPoints, validation.NotNil),
	)
}
