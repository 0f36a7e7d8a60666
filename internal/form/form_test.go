package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() Register {
	return Register{
		UserID:          "alice_01",
		UserName:        "Alice",
		PhoneNumber:     "+81-90-1234-5678",
		Email:           "alice@example.com",
		Password:        "abcdef",
		ConfirmPassword: "abcdef",
	}
}

func TestRegisterValid(t *testing.T) {
	require.NoError(t, validRegister().Validate())
}

func TestRegisterPasswordMismatchBlocks(t *testing.T) {
	f := validRegister()
	f.Password = "abcdef"
	f.ConfirmPassword = "abcdee"
	assert.False(t, Valid(f))
}

func TestRegisterFieldConstraints(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Register)
	}{
		{"missing user id", func(f *Register) { f.UserID = "" }},
		{"user id bad chars", func(f *Register) { f.UserID = "alice!" }},
		{"user id too short", func(f *Register) { f.UserID = "ab" }},
		{"missing name", func(f *Register) { f.UserName = "" }},
		{"phone with letters", func(f *Register) { f.PhoneNumber = "090-abc" }},
		{"bad email", func(f *Register) { f.Email = "not-an-email" }},
		{"short password", func(f *Register) { f.Password = "abcde"; f.ConfirmPassword = "abcde" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validRegister()
			tc.mutate(&f)
			assert.Error(t, f.Validate())
		})
	}
}

func TestLoginForm(t *testing.T) {
	assert.NoError(t, Login{Email: "a@example.com", Password: "x"}.Validate())
	assert.Error(t, Login{Email: "", Password: "x"}.Validate())
	assert.Error(t, Login{Email: "nope", Password: "x"}.Validate())
	assert.Error(t, Login{Email: "a@example.com", Password: ""}.Validate())
}

func TestContentLimitCountsCodePoints(t *testing.T) {
	assert.Error(t, Content{Text: ""}.Validate())
	assert.NoError(t, Content{Text: strings.Repeat("a", 280)}.Validate())
	assert.Error(t, Content{Text: strings.Repeat("a", 281)}.Validate())
	// multibyte runes count as single code points
	assert.NoError(t, Content{Text: strings.Repeat("あ", 280)}.Validate())
	assert.Error(t, Content{Text: strings.Repeat("あ", 281)}.Validate())
}
