package domain

import "time"

type Member struct {
	Id        MemberId  `json:"id"`
	Nickname  Nickname  `json:"nickname"`
	AvatarUrl string    `json:"avatarUrl,omitempty"`
	Admin     bool      `json:"admin,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
