package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Age range validation
	validate.RegisterValidation("age_range", func(fl validator.FieldLevel) bool {
		ageRange := fl.Field().String()
		validRanges := []string{"10s", "20s", "30s", "40s", "50s+", ""}
		for _, r := range validRanges {
			if ageRange == r {
				return true
			}
		}
		return false
	})

	// Room category validation
	validate.RegisterValidation("room_category", func(fl validator.FieldLevel) bool {
		category := fl.Field().String()
		validCategories := []string{"food", "drink", "sports", "culture", "study", "hobby", "etc"}
		for _, c := range validCategories {
			if category == c {
				return true
			}
		}
		return false
	})

	// Room visibility validation
	validate.RegisterValidation("visibility", func(fl validator.FieldLevel) bool {
		visibility := fl.Field().String()
		return visibility == "public" || visibility == "private" || visibility == ""
	})

	// Report reason validation
	validate.RegisterValidation("report_reason", func(fl validator.FieldLevel) bool {
		reason := fl.Field().String()
		validReasons := []string{"spam", "abuse", "scam", "inappropriate", "other"}
		for _, r := range validReasons {
			if reason == r {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "age_range":
			errors[field] = "Invalid age range. Must be: 10s, 20s, 30s, 40s, or 50s+"
		case "room_category":
			errors[field] = "Invalid category. Must be: food, drink, sports, culture, study, hobby, or etc"
		case "visibility":
			errors[field] = "Invalid visibility. Must be: public or private"
		case "report_reason":
			errors[field] = "Invalid reason. Must be: spam, abuse, scam, inappropriate, or other"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
