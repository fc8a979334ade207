package models

import "github.com/google/uuid"

type VoteChoice string

const (
	VoteYes VoteChoice = "yes"
	VoteNo  VoteChoice = "no"
)

// Vote records one user's answer on one poll. A user votes at most once per form.
type Vote struct {
	Base
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_form" json:"user_id"`
	VoteFormID string     `gorm:"not null;uniqueIndex:idx_votes_user_form;index" json:"vote_form_id"`
	Vote       VoteChoice `gorm:"not null" json:"vote"`
}

func (Vote) TableName() string {
	return "votes"
}
