package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecyclehub/ecyclehub/internal/domain"
)

func TestNumericAcceptsNumbersAndStrings(t *testing.T) {
	var req JointRegistrationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"username":"alice","age":29,"weight":"2.5","first_name":"Alice"}`), &req))

	assert.Equal(t, Numeric("29"), req.Age)
	assert.Equal(t, Numeric("2.5"), req.Weight)
	assert.Equal(t, "Alice", req.AccountInput().FirstName)
	assert.Equal(t, "Alice", req.DropOffInput().FirstName)
	assert.Equal(t, "2.5", req.DropOffInput().Weight)

	var quote QuoteRequest
	require.NoError(t, json.Unmarshal([]byte(`{"weight":null}`), &quote))
	assert.Equal(t, Numeric(""), quote.Weight)

	require.NoError(t, json.Unmarshal([]byte(`{"weight":"heavy"}`), &quote))
	assert.Equal(t, Numeric("heavy"), quote.Weight)
}

func TestExistingRegistrationRequestUserID(t *testing.T) {
	var req ExistingRegistrationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"weight":1.5,"consent":true}`), &req))
	assert.Nil(t, req.UserID)
	assert.True(t, req.DropOffInput().Consent)

	require.NoError(t, json.Unmarshal([]byte(`{"user_id":7}`), &req))
	require.NotNil(t, req.UserID)
	assert.Equal(t, int64(7), *req.UserID)
}

func TestResponsesFormatMoney(t *testing.T) {
	reg := &domain.Registration{
		ID:           1,
		Weight:       decimal.RequireFromString("1.234"),
		RewardAmount: decimal.RequireFromString("18.51"),
		RewardRate:   decimal.NewFromInt(15),
		RewardPolicy: "v3",
	}
	out := NewRegistrationResponse(reg)
	assert.Equal(t, "1.234", out.Weight)
	assert.Equal(t, "18.51", out.RewardAmount)
	assert.Equal(t, "15.00", out.RewardRate)

	summary := NewSummaryResponse(domain.Summary{
		Count:       3,
		TotalWeight: decimal.RequireFromString("6"),
		TotalReward: decimal.RequireFromString("90"),
	}, "PHP")
	assert.Equal(t, SummaryResponse{RegistrationCount: 3, TotalWeight: "6.00", TotalReward: "90.00", Currency: "PHP"}, summary)

	assert.Empty(t, NewRegistrationList(nil))
	assert.NotNil(t, NewRegistrationList(nil))
}

func TestUserResponseOmitsHashes(t *testing.T) {
	raw, err := json.Marshal(NewUserResponse(&domain.User{ID: 1, Username: "alice", PasswordHash: "h", SecurityAnswerHash: "a"}))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.Contains(t, string(raw), `"username":"alice"`)
}
