package utils

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOrgCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]{3}-[0-9A-F]{5}$`)

	code, err := NewOrgCode("Acme University")
	require.NoError(t, err)
	require.Regexp(t, pattern, code)
	require.Equal(t, "ACM", code[:3])

	code, err = NewOrgCode("acme")
	require.NoError(t, err)
	require.Regexp(t, pattern, code)
	require.Equal(t, "ACM", code[:3])
}

func TestOrgCodePrefix_FillsNonLetters(t *testing.T) {
	require.Equal(t, "XXT", OrgCodePrefix("42tech"))
	require.Equal(t, "AXB", OrgCodePrefix("a-b labs"))
	require.Equal(t, "AXX", OrgCodePrefix("A"))
	require.Equal(t, "XXX", OrgCodePrefix(""))
}

func TestNewAdminID(t *testing.T) {
	require.Equal(t, "ADM-ACM-001", NewAdminID("ACM-1F2A3"))
	require.Equal(t, "ADM-XXX-001", NewAdminID("XXX-00000"))
}

func TestNewOrgID_Format(t *testing.T) {
	id, err := NewOrgID()
	require.NoError(t, err)
	require.Regexp(t, `^ORG_[0-9]+_[0-9a-f]{8}$`, id)

	other, err := NewOrgID()
	require.NoError(t, err)
	require.NotEqual(t, id, other)
}

func TestNewOTPCode_Range(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := NewOTPCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}
