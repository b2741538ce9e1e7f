package server

import "github.com/go-playground/validator/v10"

var validate = validator.New()

func validateRequest(req interface{}) error {
	return validate.Struct(req)
}
