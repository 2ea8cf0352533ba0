// Package validation checks and normalizes account and drop-off payloads
// before anything is written.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 20
	minPasswordLen = 6
	minAnswerLen   = 2
	minAge         = 18
	maxAge         = 99
	contactDigits  = 11
	maxWeightScale = 3
)

// bcrypt only reads the first 72 bytes and x/crypto rejects anything longer.
const maxSecretBytes = 72

// Column widths from the migrations, counted in characters.
const (
	maxTextLen   = 255
	maxSuffixLen = 50
)

// weight is NUMERIC(12,3): nine integral digits, three fractional.
const (
	maxWeightIntegerDigits = 9
	maxWeightInputLen      = 32
)

var maxWeight = decimal.RequireFromString("999999999.999")

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	contactPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// AccountInput is the raw account field group.
type AccountInput struct {
	Username         string
	Email            string
	Password         string
	ConfirmPassword  string
	FirstName        string
	LastName         string
	Contact          string
	PhotoURL         string
	SecurityQuestion string
	SecurityAnswer   string
}

// DropOffInput is the raw e-waste field group. Age and Weight hold the
// textual form of the submitted numbers.
type DropOffInput struct {
	FirstName  string
	MiddleName string
	LastName   string
	Suffix     string
	Address    string
	Age        string
	Contact    string
	EWasteType string
	Weight     string
	PhotoURL   string
	Consent    bool
}

// Account is a validated, normalized account payload.
type Account struct {
	Username         string
	Email            string
	Password         string
	FirstName        string
	LastName         string
	Contact          *string
	PhotoURL         *string
	SecurityQuestion string
	SecurityAnswer   string
}

// DropOff is a validated, normalized e-waste payload.
type DropOff struct {
	FirstName  string
	MiddleName *string
	LastName   string
	Suffix     *string
	Address    string
	Age        int
	Contact    *string
	EWasteType string
	Weight     decimal.Decimal
	PhotoURL   *string
	Consent    bool
}

// NormalizeIdentifier trims and lowercases a username or email so that
// comparisons and storage agree.
func NormalizeIdentifier(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizeSecurityAnswer is applied before hashing and before comparing.
func NormalizeSecurityAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// ValidateAccount checks the account group.
func ValidateAccount(in AccountInput) (Account, error) {
	var v Violations
	account := checkAccount(in, &v)
	if v.Any() {
		return Account{}, v
	}
	return account, nil
}

// ValidateDropOff checks the e-waste group.
func ValidateDropOff(in DropOffInput) (DropOff, error) {
	var v Violations
	dropOff := checkDropOff(in, &v)
	if v.Any() {
		return DropOff{}, v
	}
	return dropOff, nil
}

// ValidateJoint checks both groups and reports every violation at once.
// Fields shared by both groups are reported once, under the account.
func ValidateJoint(account AccountInput, dropOff DropOffInput) (Account, DropOff, error) {
	var v Violations
	acc := checkAccount(account, &v)
	drop := checkDropOff(dropOff, &v)
	if v.Any() {
		return Account{}, DropOff{}, v.dedupe()
	}
	return acc, drop, nil
}

// ValidateWeight applies the drop-off weight rules on their own.
func ValidateWeight(raw string) (decimal.Decimal, error) {
	var v Violations
	weight := checkWeight(&v, raw)
	if v.Any() {
		return decimal.Decimal{}, v
	}
	return weight, nil
}

// ValidateCredentials checks a login payload for presence only; format rules
// would leak which usernames could exist.
func ValidateCredentials(username, password string) error {
	var v Violations
	if strings.TrimSpace(username) == "" {
		v.add("username", "is required")
	}
	if password == "" {
		v.add("password", "is required")
	}
	if v.Any() {
		return v
	}
	return nil
}

func checkAccount(in AccountInput, v *Violations) Account {
	username := NormalizeIdentifier(in.Username)
	switch {
	case username == "":
		v.add("username", "is required")
	case len(username) < minUsernameLen || len(username) > maxUsernameLen:
		v.add("username", "must be between 3 and 20 characters")
	case !usernamePattern.MatchString(username):
		v.add("username", "may contain only letters, numbers and underscores")
	}

	email := NormalizeIdentifier(in.Email)
	switch {
	case email == "":
		v.add("email", "is required")
	case utf8.RuneCountInString(email) > maxTextLen:
		v.add("email", "must be at most 255 characters")
	case !emailPattern.MatchString(email):
		v.add("email", "must be a valid email address")
	}

	switch {
	case in.Password == "":
		v.add("password", "is required")
	case len(in.Password) < minPasswordLen:
		v.add("password", "must be at least 6 characters")
	case len(in.Password) > maxSecretBytes:
		v.add("password", "must be at most 72 bytes")
	}
	switch {
	case in.ConfirmPassword == "":
		v.add("confirm_password", "is required")
	case in.Password != in.ConfirmPassword:
		v.add("confirm_password", "passwords do not match")
	}

	firstName := requireText(v, "first_name", in.FirstName, maxTextLen)
	lastName := requireText(v, "last_name", in.LastName, maxTextLen)
	contact := optionalContact(v, in.Contact)

	question := requireText(v, "security_question", in.SecurityQuestion, maxTextLen)
	answer := strings.TrimSpace(in.SecurityAnswer)
	switch {
	case answer == "":
		v.add("security_answer", "is required")
	case len([]rune(answer)) < minAnswerLen:
		v.add("security_answer", "must be at least 2 characters")
	case len(NormalizeSecurityAnswer(answer)) > maxSecretBytes:
		v.add("security_answer", "must be at most 72 bytes")
	}

	return Account{
		Username:         username,
		Email:            email,
		Password:         in.Password,
		FirstName:        firstName,
		LastName:         lastName,
		Contact:          contact,
		PhotoURL:         optionalText(in.PhotoURL),
		SecurityQuestion: question,
		SecurityAnswer:   answer,
	}
}

func checkDropOff(in DropOffInput, v *Violations) DropOff {
	firstName := requireText(v, "first_name", in.FirstName, maxTextLen)
	middleName := boundedText(v, "middle_name", in.MiddleName, maxTextLen)
	lastName := requireText(v, "last_name", in.LastName, maxTextLen)
	suffix := boundedText(v, "suffix", in.Suffix, maxSuffixLen)
	address := requireText(v, "address", in.Address, maxTextLen)
	eWasteType := requireText(v, "e_waste_type", in.EWasteType, maxTextLen)

	var age int
	rawAge := strings.TrimSpace(in.Age)
	if rawAge == "" {
		v.add("age", "is required")
	} else if parsed, err := strconv.Atoi(rawAge); err != nil {
		v.add("age", "must be a whole number")
	} else if parsed < minAge || parsed > maxAge {
		v.add("age", "must be between 18 and 99")
	} else {
		age = parsed
	}

	contact := optionalContact(v, in.Contact)

	weight := checkWeight(v, in.Weight)

	if !in.Consent {
		v.add("consent", "must be given")
	}

	return DropOff{
		FirstName:  firstName,
		MiddleName: middleName,
		LastName:   lastName,
		Suffix:     suffix,
		Address:    address,
		Age:        age,
		Contact:    contact,
		EWasteType: eWasteType,
		Weight:     weight,
		PhotoURL:   optionalText(in.PhotoURL),
		Consent:    in.Consent,
	}
}

// checkWeight bounds the exponent before any rescaling: decimal accepts
// exponents up to int32, and comparing such values costs big.Int work
// proportional to the exponent.
func checkWeight(v *Violations, raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.add("weight", "is required")
		return decimal.Decimal{}
	}
	if len(raw) > maxWeightInputLen {
		v.add("weight", "must be a number")
		return decimal.Decimal{}
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		v.add("weight", "must be a number")
		return decimal.Decimal{}
	}

	exp := int(parsed.Exponent())
	digits := parsed.NumDigits()
	switch {
	case !parsed.IsPositive():
		v.add("weight", "must be greater than 0")
	case exp > 0 && digits+exp > maxWeightIntegerDigits:
		v.add("weight", "must not exceed 999999999.999")
	case exp < -maxWeightScale-digits:
		// Fewer coefficient digits than trailing zeros needed.
		v.add("weight", "must have at most 3 decimal places")
	case -exp > maxWeightScale && !parsed.Equal(parsed.Truncate(maxWeightScale)):
		v.add("weight", "must have at most 3 decimal places")
	case parsed.GreaterThan(maxWeight):
		v.add("weight", "must not exceed 999999999.999")
	default:
		return parsed
	}
	return decimal.Decimal{}
}

func requireText(v *Violations, field, value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		v.add(field, "is required")
	case utf8.RuneCountInString(trimmed) > limit:
		v.add(field, "must be at most "+strconv.Itoa(limit)+" characters")
	}
	return trimmed
}

func boundedText(v *Violations, field, value string, limit int) *string {
	text := optionalText(value)
	if text != nil && utf8.RuneCountInString(*text) > limit {
		v.add(field, "must be at most "+strconv.Itoa(limit)+" characters")
	}
	return text
}

func optionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalContact(v *Violations, value string) *string {
	contact := optionalText(value)
	if contact == nil {
		return nil
	}
	if len(*contact) != contactDigits || !contactPattern.MatchString(*contact) {
		v.add("contact", "must be exactly 11 digits")
	}
	return contact
}
