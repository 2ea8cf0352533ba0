package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAccount() AccountInput {
	return AccountInput{
		Username:         "  Alice_01 ",
		Email:            " Alice@Example.com ",
		Password:         "secret1",
		ConfirmPassword:  "secret1",
		FirstName:        "Alice",
		LastName:         "Reyes",
		Contact:          "09171234567",
		SecurityQuestion: "What is your pet's name?",
		SecurityAnswer:   "  Bantay ",
	}
}

func validDropOff() DropOffInput {
	return DropOffInput{
		FirstName:  "Alice",
		LastName:   "Reyes",
		Address:    "Burol 1, Dasmariñas",
		Age:        "34",
		EWasteType: "Mobile phones",
		Weight:     "2.5",
		Consent:    true,
	}
}

func TestValidateAccountNormalizes(t *testing.T) {
	account, err := ValidateAccount(validAccount())
	require.NoError(t, err)

	assert.Equal(t, "alice_01", account.Username)
	assert.Equal(t, "alice@example.com", account.Email)
	assert.Equal(t, "Bantay", account.SecurityAnswer)
	require.NotNil(t, account.Contact)
	assert.Equal(t, "09171234567", *account.Contact)
	assert.Nil(t, account.PhotoURL)
}

func TestValidateAccountViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AccountInput)
		field  string
	}{
		{"missing username", func(in *AccountInput) { in.Username = "   " }, "username"},
		{"short username", func(in *AccountInput) { in.Username = "ab" }, "username"},
		{"long username", func(in *AccountInput) { in.Username = "abcdefghijklmnopqrstu" }, "username"},
		{"username charset", func(in *AccountInput) { in.Username = "alice-01" }, "username"},
		{"missing email", func(in *AccountInput) { in.Email = "" }, "email"},
		{"malformed email", func(in *AccountInput) { in.Email = "alice@example" }, "email"},
		{"short password", func(in *AccountInput) { in.Password, in.ConfirmPassword = "abc", "abc" }, "password"},
		{"mismatched confirmation", func(in *AccountInput) { in.ConfirmPassword = "secret2" }, "confirm_password"},
		{"missing confirmation", func(in *AccountInput) { in.ConfirmPassword = "" }, "confirm_password"},
		{"missing first name", func(in *AccountInput) { in.FirstName = "" }, "first_name"},
		{"missing last name", func(in *AccountInput) { in.LastName = " " }, "last_name"},
		{"short contact", func(in *AccountInput) { in.Contact = "0917123" }, "contact"},
		{"non digit contact", func(in *AccountInput) { in.Contact = "0917-123-456" }, "contact"},
		{"missing question", func(in *AccountInput) { in.SecurityQuestion = "" }, "security_question"},
		{"short answer", func(in *AccountInput) { in.SecurityAnswer = " x " }, "security_answer"},
		{"password over 72 bytes", func(in *AccountInput) {
			in.Password = strings.Repeat("p", 73)
			in.ConfirmPassword = in.Password
		}, "password"},
		{"multibyte password over 72 bytes", func(in *AccountInput) {
			in.Password = strings.Repeat("ñ", 37)
			in.ConfirmPassword = in.Password
		}, "password"},
		{"answer over 72 bytes", func(in *AccountInput) { in.SecurityAnswer = strings.Repeat("a", 73) }, "security_answer"},
		{"long email", func(in *AccountInput) { in.Email = strings.Repeat("a", 250) + "@example.com" }, "email"},
		{"long first name", func(in *AccountInput) { in.FirstName = strings.Repeat("n", 256) }, "first_name"},
		{"long last name", func(in *AccountInput) { in.LastName = strings.Repeat("n", 256) }, "last_name"},
		{"long question", func(in *AccountInput) { in.SecurityQuestion = strings.Repeat("q", 256) }, "security_question"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validAccount()
			tc.mutate(&in)

			account, err := ValidateAccount(in)
			require.Error(t, err)
			assert.Equal(t, Account{}, account, "failed input must not be partially normalized")

			violations, ok := AsViolations(err)
			require.True(t, ok)
			assert.Equal(t, []string{tc.field}, violations.Fields())
		})
	}
}

func TestValidateDropOff(t *testing.T) {
	dropOff, err := ValidateDropOff(validDropOff())
	require.NoError(t, err)
	assert.Equal(t, 34, dropOff.Age)
	assert.Equal(t, "2.5", dropOff.Weight.String())
	assert.Nil(t, dropOff.MiddleName)
	assert.True(t, dropOff.Consent)
}

func TestValidateDropOffViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DropOffInput)
		field  string
	}{
		{"zero weight", func(in *DropOffInput) { in.Weight = "0" }, "weight"},
		{"negative weight", func(in *DropOffInput) { in.Weight = "-1.5" }, "weight"},
		{"missing weight", func(in *DropOffInput) { in.Weight = "" }, "weight"},
		{"non numeric weight", func(in *DropOffInput) { in.Weight = "heavy" }, "weight"},
		{"too precise weight", func(in *DropOffInput) { in.Weight = "1.2345" }, "weight"},
		{"underage", func(in *DropOffInput) { in.Age = "17" }, "age"},
		{"too old", func(in *DropOffInput) { in.Age = "100" }, "age"},
		{"fractional age", func(in *DropOffInput) { in.Age = "30.5" }, "age"},
		{"missing age", func(in *DropOffInput) { in.Age = "" }, "age"},
		{"no consent", func(in *DropOffInput) { in.Consent = false }, "consent"},
		{"missing address", func(in *DropOffInput) { in.Address = "" }, "address"},
		{"missing type", func(in *DropOffInput) { in.EWasteType = "" }, "e_waste_type"},
		{"bad contact", func(in *DropOffInput) { in.Contact = "123" }, "contact"},
		{"weight above column", func(in *DropOffInput) { in.Weight = "1e12" }, "weight"},
		{"weight just above max", func(in *DropOffInput) { in.Weight = "1000000000" }, "weight"},
		{"long first name", func(in *DropOffInput) { in.FirstName = strings.Repeat("n", 256) }, "first_name"},
		{"long middle name", func(in *DropOffInput) { in.MiddleName = strings.Repeat("n", 256) }, "middle_name"},
		{"long last name", func(in *DropOffInput) { in.LastName = strings.Repeat("n", 256) }, "last_name"},
		{"long suffix", func(in *DropOffInput) { in.Suffix = strings.Repeat("s", 51) }, "suffix"},
		{"long address", func(in *DropOffInput) { in.Address = strings.Repeat("a", 256) }, "address"},
		{"long type", func(in *DropOffInput) { in.EWasteType = strings.Repeat("t", 256) }, "e_waste_type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validDropOff()
			tc.mutate(&in)

			dropOff, err := ValidateDropOff(in)
			require.Error(t, err)
			assert.True(t, dropOff.Weight.IsZero())

			violations, ok := AsViolations(err)
			require.True(t, ok)
			assert.Equal(t, []string{tc.field}, violations.Fields())
		})
	}
}

func TestValidateDropOffAcceptsTrailingZeros(t *testing.T) {
	in := validDropOff()
	in.Weight = "1.25000"
	dropOff, err := ValidateDropOff(in)
	require.NoError(t, err)
	assert.Equal(t, "1.25", dropOff.Weight.String())
}

func TestValidateJointCollectsAllViolations(t *testing.T) {
	account := validAccount()
	account.Username = "x"
	account.FirstName = ""
	dropOff := validDropOff()
	dropOff.FirstName = ""
	dropOff.Weight = "0"
	dropOff.Consent = false

	_, _, err := ValidateJoint(account, dropOff)
	require.Error(t, err)

	violations, ok := AsViolations(err)
	require.True(t, ok)
	assert.Equal(t, []string{"username", "first_name", "weight", "consent"}, violations.Fields())
}

func TestValidateCredentials(t *testing.T) {
	require.NoError(t, ValidateCredentials("alice", "x"))

	err := ValidateCredentials("  ", "")
	violations, ok := AsViolations(err)
	require.True(t, ok)
	assert.True(t, violations.Has("username"))
	assert.True(t, violations.Has("password"))
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "alice", NormalizeIdentifier("Alice "))
	assert.Equal(t, NormalizeIdentifier(" ALICE"), NormalizeIdentifier("alice"))
}

func TestValidateWeight(t *testing.T) {
	w, err := ValidateWeight(" 3.125 ")
	require.NoError(t, err)
	assert.Equal(t, "3.125", w.String())

	for _, raw := range []string{"", "0", "-2", "abc", "0.0001"} {
		_, err := ValidateWeight(raw)
		violations, ok := AsViolations(err)
		require.True(t, ok, raw)
		assert.Equal(t, []string{"weight"}, violations.Fields(), raw)
	}
}

func TestValidateAcceptsColumnWidths(t *testing.T) {
	account := validAccount()
	account.Password = strings.Repeat("p", 72)
	account.ConfirmPassword = account.Password
	account.SecurityAnswer = strings.Repeat("a", 72)
	account.FirstName = strings.Repeat("ñ", 255)
	_, err := ValidateAccount(account)
	require.NoError(t, err)

	dropOff := validDropOff()
	dropOff.Address = strings.Repeat("ñ", 255)
	dropOff.Suffix = strings.Repeat("s", 50)
	dropOff.MiddleName = strings.Repeat("m", 255)
	_, err = ValidateDropOff(dropOff)
	require.NoError(t, err)
}

func TestValidateWeightBounds(t *testing.T) {
	for _, raw := range []string{"999999999.999", "999999999", "9e8", "1.5e2", "12500e-4", "0.001"} {
		_, err := ValidateWeight(raw)
		assert.NoError(t, err, raw)
	}

	for _, raw := range []string{"1e9", "1e12", "999999999.9991", "1000000000.000", strings.Repeat("1", 33)} {
		_, err := ValidateWeight(raw)
		violations, ok := AsViolations(err)
		require.True(t, ok, raw)
		assert.Equal(t, []string{"weight"}, violations.Fields(), raw)
	}
}

func TestValidateWeightHugeExponents(t *testing.T) {
	for _, raw := range []string{"1e-20000000", "1e20000000", "1e-999999999", "1e999999999", "-1e-999999999"} {
		start := time.Now()
		_, err := ValidateWeight(raw)
		elapsed := time.Since(start)

		violations, ok := AsViolations(err)
		require.True(t, ok, raw)
		assert.Equal(t, []string{"weight"}, violations.Fields(), raw)
		assert.Less(t, elapsed, 100*time.Millisecond, raw)
	}
}
