package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/waveshare/waveshare-api/internal/constants"
)

// codeFiller replaces non-letter characters in the organization-code prefix.
const codeFiller = 'X'

// NewOrgID generates an opaque organization ID with a time component and
// random bytes. Collisions are astronomically rare and not defended against.
func NewOrgID() (string, error) {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return fmt.Sprintf("ORG_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(bytes)), nil
}

// NewOrgCode generates a human-shareable code in the format PREFIX-XXXXX,
// where PREFIX is derived from the organization name and XXXXX is a random
// upper-case hex suffix. Uniqueness is enforced by the store; the caller
// re-rolls on conflict.
func NewOrgCode(orgName string) (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	suffix := strings.ToUpper(hex.EncodeToString(bytes))[:constants.OrgCodeSuffixLength]
	return fmt.Sprintf("%s-%s", OrgCodePrefix(orgName), suffix), nil
}

// OrgCodePrefix derives the deterministic prefix from an organization name:
// the first three letters upper-cased, with non-letters replaced by a filler.
func OrgCodePrefix(orgName string) string {
	prefix := make([]byte, constants.OrgCodePrefixLength)
	name := strings.ToUpper(orgName)
	for i := range prefix {
		prefix[i] = codeFiller
		if i < len(name) && name[i] >= 'A' && name[i] <= 'Z' {
			prefix[i] = name[i]
		}
	}
	return string(prefix)
}

// NewAdminID derives the admin identifier from the prefix segment of the
// organization code.
func NewAdminID(orgCode string) string {
	prefix, _, _ := strings.Cut(orgCode, "-")
	return fmt.Sprintf("ADM-%s-001", prefix)
}

// NewOTPCode generates a uniformly random six-digit one-time code in the
// inclusive range [100000, 999999].
func NewOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate one-time code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
