package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/threadkeep/threadkeep/shared/domain"
)

type MemberService interface {
	Register(nickname domain.Nickname) (domain.Member, error)
	GetMembers(ids []domain.MemberId) ([]domain.Member, error)
}

type MemberStorage interface {
	UpsertMember(m domain.Member) error
	// GetMembers returns the members that exist; unknown ids are simply absent
	GetMembers(ids []domain.MemberId) ([]domain.Member, error)
}

type NicknameValidator interface {
	Nickname(nickname domain.Nickname) error
}

type Member struct {
	storage   MemberStorage
	validator NicknameValidator
}

func NewMember(storage MemberStorage, validator NicknameValidator) MemberService {
	return &Member{storage, validator}
}

// Register mints a member identity for a nickname and records the profile
// so author lookups can resolve it later.
func (s *Member) Register(nickname domain.Nickname) (domain.Member, error) {
	if err := s.validator.Nickname(nickname); err != nil {
		return domain.Member{}, err
	}

	member := domain.Member{
		Id:        uuid.NewString(),
		Nickname:  nickname,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.UpsertMember(member); err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

func (s *Member) GetMembers(ids []domain.MemberId) ([]domain.Member, error) {
	if len(ids) == 0 {
		return []domain.Member{}, nil
	}
	return s.storage.GetMembers(ids)
}
