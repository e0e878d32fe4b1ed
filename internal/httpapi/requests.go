package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/PabloPavan/sellerdesk/internal/analytics"
	"github.com/PabloPavan/sellerdesk/internal/apperrors"
)

const maxBodyBytes = 1 << 20

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return strings.TrimSpace(field.String()) != ""
	})
	validate.RegisterValidation("trimmedemail", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		email := strings.TrimSpace(field.String())
		if email == "" || len(email) > 254 {
			return false
		}
		return validate.Var(email, "email") == nil
	})
	validate.RegisterValidation("trimmedurl", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		raw := strings.TrimSpace(field.String())
		return raw == "" || validate.Var(raw, "http_url") == nil
	})
	validate.RegisterValidation("trimmedfqdn", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		raw := strings.TrimSpace(field.String())
		return raw == "" || validate.Var(raw, "fqdn") == nil
	})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.New(apperrors.KindInvalidInput, "request body is required")
		}
		return apperrors.New(apperrors.KindInvalidInput, "invalid json")
	}
	return nil
}

type LoginUserDTO struct {
	LoginIdentifier string `json:"login_identifier" validate:"required,notblank,trimmedemail"`
	Password        string `json:"password" validate:"required,notblank,max=128"`
}

type LoginDTO struct {
	User              LoginUserDTO `json:"user"`
	Next              *string      `json:"next,omitempty"`
	RecaptchaResponse *string      `json:"g-recaptcha-response,omitempty"`
}

func (r *LoginDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"LoginIdentifier": {
				"required":     "Please enter your email and password.",
				"notblank":     "Please enter your email and password.",
				"trimmedemail": "Please enter a valid email address.",
			},
			"Password": {
				"required": "Please enter your email and password.",
				"notblank": "Please enter your email and password.",
				"max":      "Please try another password. The one you entered was incorrect.",
			},
		}, "invalid request")
	}
	return nil
}

type TwoFactorDTO struct {
	UserID string  `json:"user_id" validate:"required,notblank"`
	Token  string  `json:"token" validate:"required,notblank,max=32"`
	Next   *string `json:"next,omitempty"`
}

func (r *TwoFactorDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"UserID": {"*": "Your login attempt expired, please log in again."},
			"Token":  {"*": "Invalid token, please try again."},
		}, "invalid request")
	}
	return nil
}

type ResendTwoFactorDTO struct {
	UserID string `json:"user_id" validate:"required,notblank"`
}

func (r *ResendTwoFactorDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"UserID": {"*": "Your login attempt expired, please log in again."},
		}, "invalid request")
	}
	return nil
}

type ForgotPasswordUserDTO struct {
	Email string `json:"email" validate:"required,notblank,trimmedemail"`
}

type ForgotPasswordDTO struct {
	User ForgotPasswordUserDTO `json:"user"`
}

func (r *ForgotPasswordDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Email": {"*": "Please enter a valid email address."},
		}, "invalid request")
	}
	return nil
}

type ResetPasswordDTO struct {
	Token    string `json:"token" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank,max=128"`
}

func (r *ResetPasswordDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Token":    {"*": "That reset link is invalid or has expired."},
			"Password": {"*": "Please choose a valid password."},
		}, "invalid request")
	}
	return nil
}

type CountryDTO struct {
	Country string `json:"country" validate:"required,notblank,len=2"`
}

func (r *CountryDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Country": {"*": "Please select a supported country."},
		}, "invalid request")
	}
	return nil
}

type AdvancedUserDTO struct {
	BlockedCustomerEmails string `json:"blocked_customer_emails" validate:"max=200000"`
	CustomDomain          string `json:"custom_domain" validate:"max=255,trimmedfqdn"`
	NotificationEndpoint  string `json:"notification_endpoint" validate:"max=2048,trimmedurl"`
}

type AdvancedDTO struct {
	User AdvancedUserDTO `json:"user"`
}

func (r *AdvancedDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"BlockedCustomerEmails": {"*": "The blocked emails list is too long."},
			"CustomDomain":          {"*": "Please enter a valid domain."},
			"NotificationEndpoint":  {"*": "Please enter a valid http or https URL for the ping endpoint."},
		}, "invalid request")
	}
	return nil
}

type PingDTO struct {
	URL string `json:"url" validate:"max=2048"`
}

func (r *PingDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"URL": {"*": "Please provide a valid http or https URL."},
		}, "invalid request")
	}
	return nil
}

type ThirdPartyAnalyticsDTO struct {
	User analytics.Settings `json:"user"`
}

func (r *ThirdPartyAnalyticsDTO) Validate() error {
	if err := validate.Var(r.User.Snippets, "max=50"); err != nil {
		return errors.New("too many snippets")
	}
	if err := validate.Var(r.User.GoogleAnalyticsID, "max=64"); err != nil {
		return errors.New("invalid Google Analytics id")
	}
	if err := validate.Var(r.User.FacebookPixelID, "max=64"); err != nil {
		return errors.New("invalid Facebook pixel id")
	}
	return nil
}

func validationMessage(err error, messages map[string]map[string]string, fallback string) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return errors.New(fallback)
	}
	for _, valErr := range valErrs {
		if fieldMessages, ok := messages[valErr.Field()]; ok {
			if msg, ok := fieldMessages[valErr.Tag()]; ok {
				return errors.New(msg)
			}
			if msg, ok := fieldMessages["*"]; ok {
				return errors.New(msg)
			}
		}
	}
	return errors.New(fallback)
}
