package domain_test

import (
	"testing"
	"time"

	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileType(t *testing.T) {
	assert.True(t, domain.ProfileAdmin.IsValid())
	assert.True(t, domain.ProfileEmployee.IsValid())
	assert.True(t, domain.ProfileInactive.IsValid())
	assert.False(t, domain.ProfileType("manager").IsValid())

	assert.True(t, domain.ProfileAdmin.IsAdmin())
	assert.True(t, domain.ProfileSystemAdmin.IsAdmin())
	assert.False(t, domain.ProfileEmployee.IsAdmin())
}

func TestPaymentMethod(t *testing.T) {
	assert.True(t, domain.PaymentMethodPix.IsValid())
	assert.True(t, domain.PaymentMethodCash.IsValid())
	assert.False(t, domain.PaymentMethod("cheque").IsValid())
}

func TestUser_IsActive(t *testing.T) {
	assert.True(t, (&domain.User{Profile: domain.ProfileEmployee}).IsActive())
	assert.False(t, (&domain.User{Profile: domain.ProfileInactive}).IsActive())
}

func TestCustomFields_ValueScan(t *testing.T) {
	fields := domain.CustomFields{"cor": "azul", "ambiente": "sala"}

	value, err := fields.Value()
	require.NoError(t, err)

	var decoded domain.CustomFields
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, fields, decoded)

	t.Run("nil stays nil", func(t *testing.T) {
		var empty domain.CustomFields
		value, err := empty.Value()
		require.NoError(t, err)
		assert.Nil(t, value)

		var decoded domain.CustomFields
		require.NoError(t, decoded.Scan(nil))
		assert.Nil(t, decoded)
	})

	t.Run("scans string input", func(t *testing.T) {
		var decoded domain.CustomFields
		require.NoError(t, decoded.Scan(`{"cor":"verde"}`))
		assert.Equal(t, "verde", decoded["cor"])
	})

	t.Run("rejects unexpected types", func(t *testing.T) {
		var decoded domain.CustomFields
		assert.Error(t, decoded.Scan(42))
	})
}

func TestPasswordResetToken_IsExpired(t *testing.T) {
	assert.False(t, (&domain.PasswordResetToken{ExpiresAt: time.Now().UTC().Add(time.Minute)}).IsExpired())
	assert.True(t, (&domain.PasswordResetToken{ExpiresAt: time.Now().UTC().Add(-time.Minute)}).IsExpired())
}
