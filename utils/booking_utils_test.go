package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferenceCode(t *testing.T) {
	code, err := GenerateReferenceCode(8)
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, code)

	_, err = GenerateReferenceCode(0)
	assert.Error(t, err)
}

func TestGenerateFormattedReferenceCode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: "AB4D93KF", want: "AB4D-93KF"},
		{name: "lowercase uppercased", raw: "ab4d93kf", want: "AB4D-93KF"},
		{name: "already hyphenated", raw: "AB4D-93KF", want: "AB4D-93KF"},
		{name: "too short", raw: "AB4D", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateFormattedReferenceCode(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeReferenceCode(t *testing.T) {
	assert.Equal(t, "AB4D93KF", NormalizeReferenceCode(" ab4d-93kf "))
	assert.Equal(t, "AB4D93KF", NormalizeReferenceCode("AB4D 93KF"))
	assert.Equal(t, "", NormalizeReferenceCode("----"))
}

func TestIsValidReferenceCodeFormat(t *testing.T) {
	assert.True(t, IsValidReferenceCodeFormat("AB4D93KF"))
	assert.True(t, IsValidReferenceCodeFormat("AB4D-93KF"))
	assert.True(t, IsValidReferenceCodeFormat("ab4d-93kf"))

	assert.False(t, IsValidReferenceCodeFormat(""))
	assert.False(t, IsValidReferenceCodeFormat("AB4D93K"))
	assert.False(t, IsValidReferenceCodeFormat("AB4D_93KF"))
	assert.False(t, IsValidReferenceCodeFormat("AB4D-93KF-EXTRA"))
}

func TestIsValidEmailFormat(t *testing.T) {
	valid := []string{
		"asha@college.edu",
		"  asha@college.edu  ",
		"first.last+tag@sub.domain.org",
	}
	for _, email := range valid {
		assert.True(t, IsValidEmailFormat(email), email)
	}

	invalid := []string{
		"",
		"asha-at-college",
		"asha@college",
		"@college.edu",
		"asha@.edu",
		"a sha@college.edu",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmailFormat(email), email)
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a**a@c******.edu", MaskEmail("asha@college.edu"))
	assert.Equal(t, "a*@c******.edu", MaskEmail("ab@college.edu"))
	assert.Equal(t, "a@c******.edu", MaskEmail("a@college.edu"))
	assert.Equal(t, "not-an-email", MaskEmail("not-an-email"))
}

func TestFormatSessionType(t *testing.T) {
	assert.Equal(t, "Individual Session (45 mins)", FormatSessionType("individual"))
	assert.Equal(t, "Crisis Support (30 mins)", FormatSessionType("crisis"))
	assert.Equal(t, "Follow-up Session (30 mins)", FormatSessionType("followup"))
	assert.Equal(t, "other", FormatSessionType("other"))
}

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 64) // hex doubles the byte count

	_, err = GenerateSecureToken(0)
	assert.Error(t, err)
}
