package models

import (
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/go-playground/validator/v10"
)

// Address is a shipping address owned by a user. A user may hold several;
// which one is selected is a client-side checkout concern only.
type Address struct {
	ID           string `json:"id,omitempty"`
	UserID       string `json:"userId"`
	FullName     string `json:"fullName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	ConfirmEmail string `json:"confirmEmail" validate:"required,eqfield=Email"`
	AddressType  string `json:"addressType,omitempty"`
	Line1        string `json:"addressLine1" validate:"required"`
	Line2        string `json:"addressLine2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postalCode" validate:"required"`
	Country      string `json:"country" validate:"required"`
	Phone        string `json:"phoneNumber" validate:"required,min=7"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// DefaultAddressType is used when the form leaves the type empty.
const DefaultAddressType = "Shipping"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func addressValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

var addressFieldLabels = map[string]string{
	"FullName":     "full name",
	"Email":        "email",
	"ConfirmEmail": "email confirmation",
	"Line1":        "address line 1",
	"City":         "city",
	"State":        "state",
	"PostalCode":   "postal code",
	"Country":      "country",
	"Phone":        "phone number",
}

// Validate checks the form before it is sent. The returned error is a
// *common.UserError of kind ErrValidation describing the first problem.
func (a Address) Validate() error {
	err := addressValidator().Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.NewUserError(common.ErrValidation, "Invalid address data", err)
	}

	fe := verrs[0]
	label := addressFieldLabels[fe.StructField()]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "Please enter " + label
	case "email":
		msg = "Please enter a valid email"
	case "eqfield":
		msg = "Emails do not match"
	case "min":
		msg = "Please enter a valid " + label
	default:
		msg = "Invalid " + label
	}
	return common.NewUserError(common.ErrValidation, msg, err)
}

// Label is a one-line summary for lists.
func (a Address) Label() string {
	parts := []string{a.FullName, a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	parts = append(parts, a.City, a.State, a.PostalCode, a.Country)
	return strings.Join(parts, ", ")
}

// FindAddress returns the index of the address with id, or -1.
func FindAddress(list []Address, id string) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}
