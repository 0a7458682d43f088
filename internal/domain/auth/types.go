package auth

// Package auth contains domain-level types for authentication and
// authorization. It is pure and free of framework/adapter concerns.

import "strings"

// Role represents an application's authorization role.
// Keep string form for easy persistence and JSON encoding.
// Valid values are defined as constants below, ordered by privilege rank.
type Role string

const (
	RoleOfficer    Role = "officer"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// roleRanks orders roles by privilege. Rank comparison is the only legal
// way to decide "at least as privileged as".
var roleRanks = map[Role]int{
	RoleOfficer:    1,
	RoleSupervisor: 2,
	RoleAdmin:      3,
}

// NormalizeRole trims and lowercases a role string so that case or
// whitespace differences never affect an authorization decision.
func NormalizeRole(value string) Role {
	return Role(strings.ToLower(strings.TrimSpace(value)))
}

// Rank returns the privilege rank of the role and whether the role is known.
func (r Role) Rank() (int, bool) {
	rank, ok := roleRanks[r]
	return rank, ok
}

// AtLeast reports whether r is at least as privileged as required.
// Unknown roles never satisfy any requirement.
func (r Role) AtLeast(required Role) bool {
	rank, ok := r.Rank()
	if !ok {
		return false
	}
	requiredRank, ok := required.Rank()
	if !ok {
		return false
	}
	return rank >= requiredRank
}

// Claims are the verified contents of a session credential.
// DiscordRoleIDs is optional; it is only present when the issuer embedded
// role identifiers at login time.
type Claims struct {
	UserID         string   `json:"userId"`
	DiscordID      string   `json:"discordId"`
	DiscordRoleIDs []string `json:"discordRoleIds,omitempty"`
}

// Empty reports whether the claims identify no user at all.
// Such a credential is well signed but unusable.
func (c Claims) Empty() bool {
	return c.UserID == "" && c.DiscordID == ""
}
