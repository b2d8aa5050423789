package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProfiles(t *testing.T) {
	path := writeSeedFile(t, `
profiles:
  - customer_id: cust-001
    organization_name: Acme Lending
    product_name: consumer loan
    debt_amount: 2400.00
    currency: CNY
    dpd: 5
    broken_promises: 1
    payment_refusals: 0
    extension_eligible: true
    approval_id: APR-18
    allowed_contact_hours: "09:00-20:00"
  - customer_id: cust-002
    debt_amount: 150.00
    dpd: -3
`)

	profiles, err := LoadProfiles(path)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "cust-001", profiles[0].CustomerID)
	assert.Equal(t, 2400.00, profiles[0].DebtAmount)
	assert.Equal(t, 5, profiles[0].DPD)
	assert.True(t, profiles[0].ExtensionEligible)
	assert.Equal(t, -3, profiles[1].DPD)
}

func TestLoadProfiles_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProfiles(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadProfiles(writeSeedFile(t, "profiles: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("empty list", func(t *testing.T) {
		_, err := LoadProfiles(writeSeedFile(t, "profiles: []"))
		assert.Error(t, err)
	})

	t.Run("profile without id", func(t *testing.T) {
		_, err := LoadProfiles(writeSeedFile(t, "profiles:\n  - debt_amount: 10\n"))
		assert.Error(t, err)
	})

	t.Run("negative debt", func(t *testing.T) {
		_, err := LoadProfiles(writeSeedFile(t, "profiles:\n  - customer_id: c\n    debt_amount: -5\n"))
		assert.Error(t, err)
	})
}

func TestFindProfile(t *testing.T) {
	profiles := []Profile{
		{CustomerID: "a"},
		{CustomerID: "b", DebtAmount: 9},
	}

	p, err := FindProfile(profiles, "b")
	require.NoError(t, err)
	assert.Equal(t, 9.0, p.DebtAmount)

	_, err = FindProfile(profiles, "zzz")
	assert.Error(t, err)
}
