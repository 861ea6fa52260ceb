package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"os"
	"regexp"
	"strings"
)

//
// ===========================================================
//  ENV UTILITIES
// ===========================================================
//

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

//
// ===========================================================
//  TOKEN & REFERENCE CODE GENERATORS
// ===========================================================
//

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSecureToken returns a hex token (length = bytes).
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateReferenceCode produces an A-Z0-9 code like "AB4D93KF".
// Uses crypto/rand + rand.Int (math/big) to avoid modulo bias.
func GenerateReferenceCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceCharset[num.Int64()])
	}
	return sb.String(), nil
}

// GenerateFormattedReferenceCode formats a raw 8-char code as "XXXX-XXXX".
func GenerateFormattedReferenceCode(raw string) (string, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	raw = strings.ReplaceAll(raw, "-", "")
	if len(raw) != 8 {
		return "", errors.New("raw must be length 8")
	}
	return raw[:4] + "-" + raw[4:], nil
}

// NormalizeReferenceCode strips hyphens/non-alnum and uppercases.
func NormalizeReferenceCode(code string) string {
	s := strings.ToUpper(strings.TrimSpace(code))
	re := regexp.MustCompile(`[^A-Z0-9]`)
	return re.ReplaceAllString(s, "")
}

// IsValidReferenceCodeFormat accepts "ABCDEFGH" or "ABCD-EFGH".
func IsValidReferenceCodeFormat(code string) bool {
	if code == "" {
		return false
	}
	c := strings.TrimSpace(code)
	match1, _ := regexp.MatchString(`^[A-Za-z0-9]{8}$`, c)
	match2, _ := regexp.MatchString(`^[A-Za-z0-9]{4}-[A-Za-z0-9]{4}$`, c)
	return match1 || match2
}

//
// ===========================================================
//  EMAIL HELPERS
// ===========================================================
//

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidEmailFormat is a light shape check; deliverability is the SMTP
// server's problem.
func IsValidEmailFormat(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// MaskEmail returns masked email for safe display in logs.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local := parts[0]
	domain := parts[1]

	maskedLocal := local
	if len(local) > 2 {
		maskedLocal = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	} else if len(local) == 2 {
		maskedLocal = local[:1] + "*"
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) >= 2 {
		if len(domainParts[0]) > 1 {
			domainParts[0] = domainParts[0][:1] + strings.Repeat("*", len(domainParts[0])-1)
		}
	}

	return maskedLocal + "@" + strings.Join(domainParts, ".")
}

//
// ===========================================================
//  SESSION TYPE LABELS
// ===========================================================
//

// FormatSessionType maps a session type value to its display label.
// Unknown values pass through unchanged.
func FormatSessionType(t string) string {
	switch t {
	case "individual":
		return "Individual Session (45 mins)"
	case "crisis":
		return "Crisis Support (30 mins)"
	case "followup":
		return "Follow-up Session (30 mins)"
	}
	return t
}
