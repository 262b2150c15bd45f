package player

import (
	"database/sql"
	"time"
)

// store handles all database operations for player profiles.
type store struct {
	db *sql.DB
}

// SkillLevel is the self-declared playing tier.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
	SkillProfessional SkillLevel = "Professional"
)

// Valid reports whether s is one of the known tiers.
func (s SkillLevel) Valid() bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillProfessional:
		return true
	}
	return false
}

// DefaultLocation is assigned to profiles created on first login.
const DefaultLocation = "Unknown"

// Player is the profile of one account.
type Player struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Nickname   *string    `json:"nickname,omitempty"`
	Name       *string    `json:"name,omitempty"`
	SkillLevel SkillLevel `json:"skill_level"`
	Location   string     `json:"location"`
	IsOnline   bool       `json:"is_online"`
	PhotoURL   *string    `json:"photo_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// DisplayName returns the nickname, falling back to the legacy name.
func (p *Player) DisplayName() string {
	if p.Nickname != nil && *p.Nickname != "" {
		return *p.Nickname
	}
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return "Player"
}

// ProfileUpdate holds the user editable fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Nickname   *string     `json:"nickname,omitempty"`
	SkillLevel *SkillLevel `json:"skill_level,omitempty"`
	Location   *string     `json:"location,omitempty"`
}

// Photo is an uploaded profile picture.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}
