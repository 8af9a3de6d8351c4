package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/classwork/core"
)

func TestNewUser_Validate(t *testing.T) {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	InitValidators(validate, translator)

	tests := []struct {
		name    string
		nu      NewUser
		wantMsg string
	}{
		{
			name:    "missing fields",
			nu:      NewUser{},
			wantMsg: "name is required, email is required, password is required, role is required",
		},
		{
			name:    "invalid role",
			nu:      NewUser{Name: "Awe", Email: "awe@test.cd", Password: "s3cret-Pass", Role: "admin"},
			wantMsg: "role must be one of teacher or student",
		},
		{
			name:    "short password",
			nu:      NewUser{Name: "Awe", Email: "awe@test.cd", Password: "abc", Role: RoleStudent},
			wantMsg: "password must contain at least 8 characters",
		},
		{
			name:    "password with whitespace",
			nu:      NewUser{Name: "Awe", Email: "awe@test.cd", Password: "abc def ghi", Role: RoleStudent},
			wantMsg: "password must not contain whitespace",
		},
		{
			name:    "numeric password",
			nu:      NewUser{Name: "Awe", Email: "awe@test.cd", Password: "12345678", Role: RoleStudent},
			wantMsg: "password cannot be entirely numeric",
		},
		{
			name:    "password similar to email",
			nu:      NewUser{Name: "Awe", Email: "kingkong@test.cd", Password: "kingkong1", Role: RoleStudent},
			wantMsg: "password cannot be similar to user attributes",
		},
		{
			name: "valid (cleaned)",
			nu:   NewUser{Name: "  Awe ", Email: " AWE@Test.cd ", Password: "s3cret-Pass", Role: " Teacher "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(validate, translator)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				assert.Equal(t, "awe@test.cd", tt.nu.Email)
				assert.Equal(t, RoleTeacher, tt.nu.Role)
				return
			}
			if assert.Error(t, err) {
				assert.True(t, core.IsValidation(err))
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}

func TestUser_Password(t *testing.T) {
	var usr User
	if err := usr.SetPassword("s3cret-Pass"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	assert.NoError(t, usr.CheckPassword("s3cret-Pass"))
	assert.Error(t, usr.CheckPassword("lol"))
}
