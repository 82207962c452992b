package models

import "time"

const (
	FactionLoner    = "LONER"
	FactionSurvivor = "SURVIVOR"
	FactionBandit   = "BANDIT"
	FactionTrader   = "TRADER"
	FactionMedic    = "MEDIC"
	FactionMilitary = "MILITARY"
)

type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	SteamID     string     `json:"steamId"`
	Password    string     `json:"-"`
	Faction     string     `json:"faction"`
	IsOnline    bool       `json:"isOnline"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	SteamID     string     `json:"steamId"`
	Faction     string     `json:"faction"`
	IsOnline    bool       `json:"isOnline"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type UserWithFriends struct {
	UserResponse
	Friends []UserResponse `json:"friends"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		SteamID:     u.SteamID,
		Faction:     u.Faction,
		IsOnline:    u.IsOnline,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
