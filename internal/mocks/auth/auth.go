package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/zonewatch/zonewatch-api/internal/data"
	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
	"github.com/zonewatch/zonewatch-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.OAuthProvider   = (*MockOAuthProvider)(nil)
	_ ports.UserStore       = (*MemoryUserStore)(nil)
	_ ports.SessionCodec    = (*StaticCodec)(nil)
	_ ports.GuildVerifier   = (*MockGuildVerifier)(nil)
	_ ports.MemberRoleCache = (*MemoryMemberRoleCache)(nil)
)

// MockOAuthProvider simulates the identity provider with deterministic
// results and call counters for interaction assertions.
type MockOAuthProvider struct {
	ExchangeFunc     func(ctx context.Context, code string) (string, error)
	FetchProfileFunc func(ctx context.Context, accessToken string) (ports.Profile, error)

	AuthURL        string
	AccessToken    string
	DefaultProfile ports.Profile

	ExchangeCalls     int
	FetchProfileCalls int
}

// NewMockOAuthProvider creates a MockOAuthProvider with sensible defaults.
func NewMockOAuthProvider() *MockOAuthProvider {
	return &MockOAuthProvider{
		AuthURL:     "https://mock-provider/oauth/authorize",
		AccessToken: "mock-access-token",
		DefaultProfile: ports.Profile{
			ID:        "111222333",
			Username:  "mockuser",
			AvatarURL: "https://cdn.example.com/avatars/111222333/abc.png",
		},
	}
}

func (m *MockOAuthProvider) AuthCodeURL(state string) string {
	return m.AuthURL + "?state=" + state
}

func (m *MockOAuthProvider) Exchange(ctx context.Context, code string) (string, error) {
	m.ExchangeCalls++
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	if code == "" {
		return "", errors.New("code cannot be empty")
	}
	return m.AccessToken, nil
}

func (m *MockOAuthProvider) FetchProfile(ctx context.Context, accessToken string) (ports.Profile, error) {
	m.FetchProfileCalls++
	if m.FetchProfileFunc != nil {
		return m.FetchProfileFunc(ctx, accessToken)
	}
	return m.DefaultProfile, nil
}

// MemoryUserStore is an in-memory user store for unit tests.
type MemoryUserStore struct {
	mu     sync.Mutex
	byID   map[string]*model.User
	nextID int

	// UpsertErr, when set, is returned from Upsert.
	UpsertErr error
	// LookupErr, when set, is returned from lookups to simulate infra failure.
	LookupErr error
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byID: make(map[string]*model.User)}
}

func (m *MemoryUserStore) Upsert(_ context.Context, in ports.UpsertUserInput) (*model.User, error) {
	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}
	if strings.TrimSpace(in.DiscordID) == "" {
		return nil, errors.New("discord id cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if u.DiscordID == in.DiscordID {
			u.Username = in.Username
			if in.AvatarURL != "" {
				avatar := in.AvatarURL
				u.Avatar = &avatar
			} else {
				u.Avatar = nil
			}
			out := *u
			return &out, nil
		}
	}

	m.nextID++
	user := &model.User{
		ID:        fmt.Sprintf("user-%d", m.nextID),
		DiscordID: in.DiscordID,
		Username:  in.Username,
		Role:      domainauth.RoleOfficer,
	}
	if in.AvatarURL != "" {
		avatar := in.AvatarURL
		user.Avatar = &avatar
	}
	m.byID[user.ID] = user
	out := *user
	return &out, nil
}

func (m *MemoryUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, data.ErrUserNotFound
}

func (m *MemoryUserStore) GetByDiscordID(_ context.Context, discordID string) (*model.User, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.DiscordID == discordID {
			out := *u
			return &out, nil
		}
	}
	return nil, data.ErrUserNotFound
}

func (m *MemoryUserStore) SetDiscordRoleIDs(_ context.Context, id string, roleIDs []string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	if len(roleIDs) > 0 {
		joined := strings.Join(roleIDs, ",")
		u.DiscordRoleIDs = &joined
	} else {
		u.DiscordRoleIDs = nil
	}
	out := *u
	return &out, nil
}

// Put seeds a user directly, bypassing upsert semantics.
func (m *MemoryUserStore) Put(user *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[user.ID] = user
}

// StaticCodec issues predictable tokens and verifies from a fixed table.
type StaticCodec struct {
	// Tokens maps token strings to the claims Verify returns for them.
	Tokens map[string]domainauth.Claims
	// VerifyErr, when set, is returned from Verify for unknown tokens.
	VerifyErr error

	IssueCalls  int
	VerifyCalls int
}

// NewStaticCodec creates a StaticCodec with an empty token table.
func NewStaticCodec() *StaticCodec {
	return &StaticCodec{
		Tokens:    make(map[string]domainauth.Claims),
		VerifyErr: errors.New("token not recognized"),
	}
}

func (c *StaticCodec) Issue(user *model.User) (string, error) {
	c.IssueCalls++
	if user == nil {
		return "", errors.New("user cannot be nil")
	}
	token := "token-for-" + user.DiscordID
	c.Tokens[token] = domainauth.Claims{
		UserID:         user.ID,
		DiscordID:      user.DiscordID,
		DiscordRoleIDs: user.DiscordRoleIDList(),
	}
	return token, nil
}

func (c *StaticCodec) Verify(token string) (domainauth.Claims, error) {
	c.VerifyCalls++
	if claims, ok := c.Tokens[token]; ok {
		return claims, nil
	}
	return domainauth.Claims{}, c.VerifyErr
}

// MockGuildVerifier returns canned membership results and counts calls.
type MockGuildVerifier struct {
	Result ports.MembershipResult
	Err    error

	Calls     int
	LastInput ports.MembershipInput
}

func (m *MockGuildVerifier) VerifyMembership(_ context.Context, in ports.MembershipInput) (ports.MembershipResult, error) {
	m.Calls++
	m.LastInput = in
	if m.Err != nil {
		return ports.MembershipResult{}, m.Err
	}
	return m.Result, nil
}

// MemoryMemberRoleCache is an in-memory member role cache with call counters.
type MemoryMemberRoleCache struct {
	mu      sync.Mutex
	entries map[string][]string

	GetCalls int
	SetCalls int
	// GetErr and SetErr simulate cache infrastructure failure.
	GetErr error
	SetErr error
}

// NewMemoryMemberRoleCache creates an empty in-memory cache.
func NewMemoryMemberRoleCache() *MemoryMemberRoleCache {
	return &MemoryMemberRoleCache{entries: make(map[string][]string)}
}

func (m *MemoryMemberRoleCache) Get(_ context.Context, guildID, userID string) ([]string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	roles, ok := m.entries[guildID+":"+userID]
	return roles, ok, nil
}

func (m *MemoryMemberRoleCache) Set(_ context.Context, guildID, userID string, roleIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.entries[guildID+":"+userID] = roleIDs
	return nil
}
