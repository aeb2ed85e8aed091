package validation

import "strings"

// LoginInput is the login record checked by both the API and the CLI.
type LoginInput struct {
	Name      string `json:"name" validate:"personname"`
	Age       int    `json:"age" validate:"age"`
	Education string `json:"education" validate:"education"`
}

// Normalize trims the free-text fields.
func (in LoginInput) Normalize() LoginInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Education = strings.TrimSpace(in.Education)
	return in
}

// Login normalizes and validates a login record, reporting the first
// failure in name, age, education order.
func Login(in LoginInput) (LoginInput, error) {
	in = in.Normalize()
	if err := Struct(in); err != nil {
		return in, err
	}
	return in, nil
}
