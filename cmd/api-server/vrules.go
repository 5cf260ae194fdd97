package main

import (
	"github.com/protomem/daily-diet/internal/validator"
)

// Validation rules

func validateRequestMealBody(v *validator.Validator, request requestMealBody) {
	v.CheckField(validator.NotBlank(request.Name), "name", "cannot be blank")
	v.CheckField(validator.NotBlank(request.Description), "description", "cannot be blank")
	v.CheckField(validator.NotBlank(request.Date), "date", "cannot be blank")
	v.CheckField(validator.NotBlank(request.Hour), "hour", "cannot be blank")
	v.CheckField(request.Inside != nil, "inside", "must be provided")
}

func validateUserName(v *validator.Validator, userName string) {
	v.CheckField(validator.NotBlank(userName), "name", "cannot be blank")
	v.CheckField(validator.MaxRunes(userName, 100), "name", "must not be more than 100 characters")
}
