package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// User repository sentinels.
	ErrUserNotFound      = errors.New("user not found")
	ErrDiscordIDRequired = errors.New("discord_id is required")

	// Zone repository sentinels.
	ErrZoneNotFound   = errors.New("zone not found")
	ErrZoneNameExists = errors.New("zone name already exists")
)
