package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateZoneRequest_Validate(t *testing.T) {
	req := &CreateZoneRequest{Name: "  harbor  "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "harbor", req.Name)
}

func TestCreateZoneRequest_ValidateRejectsEmpty(t *testing.T) {
	assert.Error(t, (&CreateZoneRequest{}).Validate())
	assert.Error(t, (&CreateZoneRequest{Name: "   "}).Validate())
}

func TestCreateZoneRequest_ValidateLength(t *testing.T) {
	ok := &CreateZoneRequest{Name: strings.Repeat("a", 255)}
	assert.NoError(t, ok.Validate())

	tooLong := &CreateZoneRequest{Name: strings.Repeat("a", 256)}
	assert.Error(t, tooLong.Validate())
}

func TestUser_DiscordRoleIDList(t *testing.T) {
	var missing *User
	assert.Nil(t, missing.DiscordRoleIDList())
	assert.Nil(t, (&User{}).DiscordRoleIDList())

	stored := " 100, 200 ,,300 "
	user := &User{DiscordRoleIDs: &stored}
	assert.Equal(t, []string{"100", "200", "300"}, user.DiscordRoleIDList())
}
