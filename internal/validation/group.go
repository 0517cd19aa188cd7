package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitsmart/internal/apperrors"
	"github.com/mmynk/splitsmart/internal/money"
)

const (
	minGroupNameLen = 2
	maxGroupNameLen = 50
	minGroupMembers = 2
)

// GroupInput is a group as submitted for creation.
type GroupInput struct {
	Name           string   `validate:"required,group_name"`
	MasterCurrency string   `validate:"required,len=3,supported_currency"`
	Members        []string `validate:"min=2,unique,dive,required"`
	ImageURL       string   `validate:"omitempty,url"`
}

// GroupUpdate holds the group fields that may change after creation.
type GroupUpdate struct {
	Name           *string `validate:"omitempty,group_name"`
	MasterCurrency *string `validate:"omitempty,len=3,supported_currency"`
	ImageURL       *string `validate:"omitempty,url"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func groupValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := v.RegisterValidation("supported_currency", func(fl validator.FieldLevel) bool {
			return money.IsSupported(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register supported_currency: %v", err))
		}
		if err := v.RegisterValidation("group_name", func(fl validator.FieldLevel) bool {
			_, err := ValidateGroupName(fl.Field().String())
			return err == nil
		}); err != nil {
			panic(fmt.Sprintf("register group_name: %v", err))
		}
		validate = v
	})
	return validate
}

// ValidateGroupName trims name and checks its length.
func ValidateGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < minGroupNameLen || n > maxGroupNameLen {
		return "", apperrors.New(apperrors.InvalidGroup, "name",
			"Group name must be between %d and %d characters", minGroupNameLen, maxGroupNameLen)
	}
	return name, nil
}

// ValidateGroupInput normalizes and checks a new group. Members must hold at
// least two distinct users.
func ValidateGroupInput(in GroupInput) (GroupInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.MasterCurrency = strings.ToUpper(strings.TrimSpace(in.MasterCurrency))
	in.Members = nonEmpty(in.Members)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if err := groupValidator().Struct(in); err != nil {
		return GroupInput{}, groupError(err)
	}
	return in, nil
}

// ValidateGroupUpdate normalizes and checks a group edit.
func ValidateGroupUpdate(in GroupUpdate) (GroupUpdate, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if in.MasterCurrency != nil {
		code := strings.ToUpper(strings.TrimSpace(*in.MasterCurrency))
		in.MasterCurrency = &code
	}
	if err := groupValidator().Struct(in); err != nil {
		return GroupUpdate{}, groupError(err)
	}
	return in, nil
}

func groupError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.New(apperrors.InvalidGroup, "", "%v", err)
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		return apperrors.New(apperrors.InvalidGroup, "name",
			"Group name must be between %d and %d characters", minGroupNameLen, maxGroupNameLen)
	case "MasterCurrency":
		return apperrors.New(apperrors.UnsupportedCurrency, "masterCurrency",
			"Currency is not supported")
	case "Members":
		if fe.Tag() == "unique" {
			return apperrors.New(apperrors.InvalidGroup, "members", "Members must be distinct")
		}
		return apperrors.New(apperrors.InvalidGroup, "members",
			"A group needs at least %d members", minGroupMembers)
	case "ImageURL":
		return apperrors.New(apperrors.InvalidGroup, "imageUrl", "Image URL is not valid")
	}
	return apperrors.New(apperrors.InvalidGroup, strings.ToLower(fe.Field()), "%s is not valid", fe.Field())
}
