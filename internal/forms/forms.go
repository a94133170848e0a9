package forms

import (
	"regexp"
	"unicode"
)

// FormErrors maps a field name to a human-readable message. Recomputed from
// current values on every change; never persisted.
type FormErrors map[string]string

// emailPattern is a permissive UI hint: local part, @, domain with a dot.
// Canonical validation is the server's job.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// PasswordScore rates a password 0-4: one point each for length >= 8, an
// uppercase letter, a digit, and a non-alphanumeric character. Adding a
// satisfied rule never lowers the score.
func PasswordScore(pw string) int {
	score := 0
	if len(pw) >= 8 {
		score++
	}
	var upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			symbol = true
		}
	}
	if upper {
		score++
	}
	if digit {
		score++
	}
	if symbol {
		score++
	}
	return score
}

// StrengthLabel maps a score bucket to its label. Score 0 has no label.
func StrengthLabel(score int) string {
	switch {
	case score <= 0:
		return ""
	case score == 1:
		return "Weak"
	case score == 2:
		return "Fair"
	case score == 3:
		return "Good"
	default:
		return "Strong"
	}
}

// RegisterForm carries the registration fields as submitted.
type RegisterForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate recomputes every field error from the current values. Submission
// must be rejected while any required field is empty or any error is present.
func (f RegisterForm) Validate() FormErrors {
	errs := FormErrors{}
	if f.Name == "" {
		errs["name"] = "Name is required."
	}
	switch {
	case f.Email == "":
		errs["email"] = "Email is required."
	case !ValidEmail(f.Email):
		errs["email"] = "Enter a valid email address."
	}
	if f.Password == "" {
		errs["password"] = "Password is required."
	}
	// Confirmation is only checked once the field is non-empty.
	if f.ConfirmPassword != "" && f.ConfirmPassword != f.Password {
		errs["confirmPassword"] = "Passwords do not match."
	}
	if f.ConfirmPassword == "" {
		errs["confirmPassword"] = "Please confirm your password."
	}
	return errs
}

// LoginForm carries the login fields as submitted.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() FormErrors {
	errs := FormErrors{}
	switch {
	case f.Email == "":
		errs["email"] = "Email is required."
	case !ValidEmail(f.Email):
		errs["email"] = "Enter a valid email address."
	}
	if f.Password == "" {
		errs["password"] = "Password is required."
	}
	return errs
}

// ResetPasswordForm carries the reset-password fields as submitted.
type ResetPasswordForm struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (f ResetPasswordForm) Validate() FormErrors {
	errs := FormErrors{}
	if f.Token == "" {
		errs["token"] = "Reset token is missing."
	}
	if f.Password == "" {
		errs["password"] = "Password is required."
	}
	if f.ConfirmPassword != "" && f.ConfirmPassword != f.Password {
		errs["confirmPassword"] = "Passwords do not match."
	}
	if f.ConfirmPassword == "" {
		errs["confirmPassword"] = "Please confirm your password."
	}
	return errs
}

// SubdomainForm carries the desired tenant slug.
type SubdomainForm struct {
	Subdomain string `json:"subdomain"`
}

// slugPattern matches the hostnames the tenant resolver can hand back:
// lowercase letters, digits and hyphens, no leading or trailing hyphen.
var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

func (f SubdomainForm) Validate() FormErrors {
	errs := FormErrors{}
	switch {
	case f.Subdomain == "":
		errs["subdomain"] = "Subdomain is required."
	case f.Subdomain == "www":
		errs["subdomain"] = "This subdomain is reserved."
	case len(f.Subdomain) > 63 || !slugPattern.MatchString(f.Subdomain):
		errs["subdomain"] = "Use lowercase letters, digits and hyphens only."
	}
	return errs
}
