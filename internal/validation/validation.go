package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

// custom validation tags
const (
	notBlankTag   = "notblank"
	personNameTag = "personname"
	ageTag        = "age"
	educationTag  = "education"
)

const (
	MinAge = 16
	MaxAge = 100
)

// Educations lists the accepted undergraduate courses.
var Educations = []string{
	"Computer Science",
	"Engineering",
	"Business Administration",
	"Medicine",
	"Law",
	"Architecture",
	"Psychology",
	"Economics",
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"Literature",
	"History",
	"Philosophy",
}

var customMessages = map[string]string{
	notBlankTag:   "{0} cannot be blank",
	personNameTag: "Name must be at least 2 characters long",
	ageTag:        "Age must be between 16 and 100",
	educationTag:  "Invalid education selection",
}

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(personNameTag, personName)
	_ = validate.RegisterValidation(ageTag, ageInRange)
	_ = validate.RegisterValidation(educationTag, knownEducation)

	for tag, msg := range customMessages {
		registerTranslation(tag, msg)
	}
}

func registerTranslation(tag, msg string) {
	register := func(t ut.Translator) error {
		return t.Add(tag, msg, true)
	}
	translate := func(t ut.Translator, fe validator.FieldError) string {
		s, err := t.T(tag, fe.Field())
		if err != nil {
			return msg
		}
		return s
	}
	_ = validate.RegisterTranslation(tag, translator, register, translate)
}

// ── Custom Validators ───────────────────────────────────

func notBlank(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return false
}

func personName(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return utf8.RuneCountInString(strings.TrimSpace(s)) >= 2
	}
	return false
}

func ageInRange(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		age := fl.Field().Int()
		return age >= MinAge && age <= MaxAge
	}
	return false
}

func knownEducation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && IsEducation(s)
}

func IsEducation(s string) bool {
	for _, e := range Educations {
		if e == s {
			return true
		}
	}
	return false
}

// ── Errors ──────────────────────────────────────────────

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors holds every failed rule in struct field order.
type Errors []FieldError

// Error reports the first failure, which is what callers show to users.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Message
}

// Struct validates v and returns Errors, or nil when every rule passes.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fe.Translate(translator)})
	}
	return out
}
