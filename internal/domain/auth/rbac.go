package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned when a required role does not normalize to a
// recognized rank. This indicates a misconfigured gate, not a bad request.
var ErrUnknownRole = errors.New("unknown required role")

// AccessReason explains the outcome of an access evaluation.
type AccessReason string

const (
	ReasonGrantedByDatabaseRole AccessReason = "granted_by_database_role"
	ReasonGrantedByDiscordRole  AccessReason = "granted_by_discord_role"
	ReasonInsufficientRole      AccessReason = "insufficient_role"
)

// RoleIDConfig maps each rank to the Discord role identifiers that grant it.
// The lists come from configuration (one comma-separated list per rank).
type RoleIDConfig struct {
	Officer    []string
	Supervisor []string
	Admin      []string
}

func (c RoleIDConfig) idsForRole(role Role) []string {
	switch role {
	case RoleOfficer:
		return c.Officer
	case RoleSupervisor:
		return c.Supervisor
	case RoleAdmin:
		return c.Admin
	default:
		return nil
	}
}

// AllIDs returns the union of the configured identifiers across all ranks.
func (c RoleIDConfig) AllIDs() []string {
	return UnionRoleIDs(c.Officer, c.Supervisor, c.Admin)
}

// AccessDecision is the per-request result of evaluating a required role
// against a stored role and a set of Discord role identifiers.
// FromDatabase and FromDiscord are reported independently so callers can
// tell which path granted access; either alone is sufficient.
type AccessDecision struct {
	Allowed      bool         `json:"allowed"`
	Reason       AccessReason `json:"reason"`
	RequiredRole Role         `json:"requiredRole"`
	FromDatabase bool         `json:"fromDatabase"`
	FromDiscord  bool         `json:"fromDiscord"`
}

// EvaluateInput groups the inputs to EvaluateAccess.
type EvaluateInput struct {
	// StoredRole is the user's persisted role, as stored (not yet normalized).
	StoredRole string
	// DiscordRoleIDs is the deduplicated set of externally asserted role ids.
	DiscordRoleIDs []string
	// RequiredRole is the rank the caller must hold.
	RequiredRole string
	// RoleIDs is the configured rank-to-identifier mapping.
	RoleIDs RoleIDConfig
}

// EvaluateAccess reconciles a stored role and a set of Discord role ids
// against a required role. It is pure: no I/O, deterministic for a given
// input. The database path and the Discord path are evaluated independently
// and combined with OR; the reason prefers the database path when both hold.
func EvaluateAccess(in EvaluateInput) (AccessDecision, error) {
	required := NormalizeRole(in.RequiredRole)
	requiredRank, ok := required.Rank()
	if !ok {
		return AccessDecision{}, fmt.Errorf("%w: %q", ErrUnknownRole, in.RequiredRole)
	}

	fromDatabase := NormalizeRole(in.StoredRole).AtLeast(required)
	fromDiscord := hasMinimumDiscordRole(in.DiscordRoleIDs, requiredRank, in.RoleIDs)

	decision := AccessDecision{
		Allowed:      fromDatabase || fromDiscord,
		RequiredRole: required,
		FromDatabase: fromDatabase,
		FromDiscord:  fromDiscord,
	}
	switch {
	case fromDatabase:
		decision.Reason = ReasonGrantedByDatabaseRole
	case fromDiscord:
		decision.Reason = ReasonGrantedByDiscordRole
	default:
		decision.Reason = ReasonInsufficientRole
	}
	return decision, nil
}

// hasMinimumDiscordRole reports whether any held identifier is configured
// for a rank at or above requiredRank. An empty held set is always false,
// without consulting configuration.
func hasMinimumDiscordRole(held []string, requiredRank int, cfg RoleIDConfig) bool {
	if len(held) == 0 {
		return false
	}

	heldSet := make(map[string]struct{}, len(held))
	for _, id := range held {
		heldSet[id] = struct{}{}
	}

	for role, rank := range roleRanks {
		if rank < requiredRank {
			continue
		}
		for _, id := range cfg.idsForRole(role) {
			if _, ok := heldSet[id]; ok {
				return true
			}
		}
	}
	return false
}

// ParseRoleIDs splits a comma-separated identifier list, trimming whitespace
// and dropping empty entries.
func ParseRoleIDs(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// UnionRoleIDs returns the deduplicated union of role identifier sets,
// preserving first-seen order. This produces the one canonical set that
// reaches EvaluateAccess, keeping the evaluator free of request-shape
// knowledge.
func UnionRoleIDs(sets ...[]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, id := range set {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
