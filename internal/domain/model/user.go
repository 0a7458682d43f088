//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"time"

	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
)

// User is an application user, created on first successful Discord login
// and updated (name, avatar, last login) on each subsequent login.
type User struct {
	ID             string          `json:"id"               db:"id"`
	DiscordID      string          `json:"discord_id"       db:"discord_id"`
	Username       string          `json:"username"         db:"username"`
	Avatar         *string         `json:"avatar"           db:"avatar"`
	Role           domainauth.Role `json:"role"             db:"role"`
	DiscordRoleIDs *string         `json:"discord_role_ids" db:"discord_role_ids"` // comma-separated, nullable
	CreatedAt      time.Time       `json:"created_at"       db:"created_at"`
	LastLogin      *time.Time      `json:"last_login"       db:"last_login"`
}

// DiscordRoleIDList parses the stored comma-separated role ids.
func (u *User) DiscordRoleIDList() []string {
	if u == nil || u.DiscordRoleIDs == nil {
		return nil
	}
	return domainauth.ParseRoleIDs(*u.DiscordRoleIDs)
}
