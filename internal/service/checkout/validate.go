package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"foodtruck-ordering/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{12}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate normalizes in and reports every problem at once.
func (s *Service) validate(in *Input) error {
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)
	in.PaymentMethod = normalizePayment(in.PaymentMethod)

	verr := &domain.ValidationError{}
	if err := s.validator.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), message(fe))
		}
	}

	if in.PaymentMethod == domain.PaymentCard {
		if !cardNumberRe.MatchString(strings.TrimSpace(in.CardNumber)) {
			verr.Add("cardNumber", "card number must be 12 digits")
		}
		if !expiryRe.MatchString(strings.TrimSpace(in.Expiry)) {
			verr.Add("expiry", "expiry must be MM/YY")
		}
		if !cvvRe.MatchString(strings.TrimSpace(in.CVV)) {
			verr.Add("cvv", "cvv must be 3 or 4 digits")
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

func normalizePayment(method string) string {
	method = strings.TrimSpace(method)
	switch {
	case method == "":
		return domain.PaymentCash
	case strings.EqualFold(method, domain.PaymentCash):
		return domain.PaymentCash
	case strings.EqualFold(method, domain.PaymentCard):
		return domain.PaymentCard
	}
	return method
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}
