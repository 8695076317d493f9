package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/harentsoaR/healthdesk-api/internal/apperrors"
	"github.com/harentsoaR/healthdesk-api/internal/models"
)

// bcrypt ignores input beyond 72 bytes.
const maxPasswordBytes = 72

// AccountCreate is the registration payload.
type AccountCreate struct {
	Email    string      `json:"email" validate:"required,email"`
	FullName string      `json:"full_name" validate:"min=1,max=100"`
	Role     models.Role `json:"role" validate:"role"`
	Password string      `json:"password" validate:"min=6"`
	IsActive *bool       `json:"is_active"`
}

// EnquiryCreate is the enquiry submission payload. Status is accepted on the
// wire and always discarded.
type EnquiryCreate struct {
	PatientName  string `json:"patient_name" validate:"min=1,max=100"`
	PatientEmail string `json:"patient_email" validate:"required,email"`
	PatientPhone string `json:"patient_phone" validate:"min=10,max=15"`
	Subject      string `json:"subject" validate:"min=1,max=200"`
	Message      string `json:"message" validate:"min=1"`
	Status       string `json:"status,omitempty" validate:"-"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role, ok := fl.Field().Interface().(models.Role)
		return ok && role.Valid()
	})
	return v
}

// ValidateAccountCreate trims the payload, checks it and returns the
// normalized copy. The password is checked as given.
func ValidateAccountCreate(p AccountCreate) (AccountCreate, error) {
	p.Email = strings.TrimSpace(p.Email)
	p.FullName = strings.TrimSpace(p.FullName)

	if err := check(p); err != nil {
		return AccountCreate{}, err
	}
	if len(p.Password) > maxPasswordBytes {
		return AccountCreate{}, apperrors.Validation("invalid account payload", map[string]string{
			"password": fmt.Sprintf("must be at most %d bytes", maxPasswordBytes),
		}, nil)
	}
	if p.IsActive == nil {
		active := true
		p.IsActive = &active
	}
	return p, nil
}

// ValidateEnquiryCreate trims the payload, checks it and returns the
// normalized copy with Status cleared.
func ValidateEnquiryCreate(p EnquiryCreate) (EnquiryCreate, error) {
	p.PatientName = strings.TrimSpace(p.PatientName)
	p.PatientEmail = strings.TrimSpace(p.PatientEmail)
	p.PatientPhone = strings.TrimSpace(p.PatientPhone)
	p.Subject = strings.TrimSpace(p.Subject)
	p.Message = strings.TrimSpace(p.Message)
	p.Status = ""

	if err := check(p); err != nil {
		return EnquiryCreate{}, err
	}
	return p, nil
}

func check(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("invalid payload", nil, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return apperrors.Validation(summary(fields), fields, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "role":
		return fmt.Sprintf("must be one of %s, %s, %s",
			models.RoleAdministrator, models.RoleClinician, models.RoleStaff)
	case "min":
		if fe.Param() == "1" {
			return "must not be empty"
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func summary(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return "invalid fields: " + strings.Join(names, ", ")
}
