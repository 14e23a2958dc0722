package checkout

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
)

// ValidationErrors maps a form field to the message shown next to it.
type ValidationErrors map[string]string

var (
	nameRe          = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRe         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe         = regexp.MustCompile(`^\+?[1-9]\d{9,}$`)
	phoneSeparators = regexp.MustCompile(`[\s\-().]`)
	accountNumberRe = regexp.MustCompile(`^\d{8,17}$`)
	whitespace      = regexp.MustCompile(`\s+`)
)

const minAddressLength = 10

// DefaultAccountTypes are offered when none are configured.
var DefaultAccountTypes = []string{"savings", "checking"}

func ValidateCustomerDetails(d domain.CustomerDetails) ValidationErrors {
	errs := ValidationErrors{}
	validateName(errs, "firstName", "First name", d.FirstName)
	validateName(errs, "lastName", "Last name", d.LastName)

	if email := strings.TrimSpace(d.Email); email == "" {
		errs["email"] = "Email is required"
	} else if !emailRe.MatchString(email) {
		errs["email"] = "Please enter a valid email address"
	}

	if phone := strings.TrimSpace(d.Phone); phone == "" {
		errs["phone"] = "Phone number is required"
	} else if !phoneRe.MatchString(phoneSeparators.ReplaceAllString(phone, "")) {
		errs["phone"] = "Please enter a valid phone number (at least 10 digits)"
	}

	if addr := strings.TrimSpace(d.Address); addr == "" {
		errs["address"] = "Address is required"
	} else if utf8.RuneCountInString(addr) < minAddressLength {
		errs["address"] = fmt.Sprintf("Address must be at least %d characters", minAddressLength)
	}
	return errs
}

func ValidatePaymentDetails(d domain.PaymentDetails, accountTypes []string) ValidationErrors {
	if len(accountTypes) == 0 {
		accountTypes = DefaultAccountTypes
	}
	errs := ValidationErrors{}
	validateName(errs, "accountHolderName", "Account holder name", d.AccountHolderName)

	if num := whitespace.ReplaceAllString(d.AccountNumber, ""); num == "" {
		errs["accountNumber"] = "Account number is required"
	} else if !accountNumberRe.MatchString(num) {
		errs["accountNumber"] = "Account number must be 8-17 digits"
	}

	if bank := strings.TrimSpace(d.BankName); bank == "" {
		errs["bankName"] = "Bank name is required"
	} else if utf8.RuneCountInString(bank) < 2 {
		errs["bankName"] = "Bank name must be at least 2 characters"
	}

	if t := strings.TrimSpace(d.AccountType); t == "" {
		errs["accountType"] = "Account type is required"
	} else if !slices.Contains(accountTypes, t) {
		errs["accountType"] = "Please select a valid account type"
	}
	return errs
}

func validateName(errs ValidationErrors, field, label, v string) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		errs[field] = label + " is required"
	case utf8.RuneCountInString(v) < 2:
		errs[field] = label + " must be at least 2 characters"
	case !nameRe.MatchString(v):
		errs[field] = label + " can only contain letters and spaces"
	}
}
