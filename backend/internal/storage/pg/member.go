package pg

import (
	"github.com/lib/pq"

	"github.com/threadkeep/threadkeep/shared/domain"
)

func (s *Storage) UpsertMember(m domain.Member) error {
	_, err := s.db.Exec(`
	INSERT INTO members(id, nickname, avatar_url, created_at)
	VALUES($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET nickname = EXCLUDED.nickname, avatar_url = EXCLUDED.avatar_url`,
		m.Id, m.Nickname, m.AvatarUrl, m.CreatedAt)
	return err
}

func (s *Storage) GetMembers(ids []domain.MemberId) ([]domain.Member, error) {
	rows, err := s.db.Query(`
	SELECT id, nickname, avatar_url, created_at
	FROM members
	WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.Id, &m.Nickname, &m.AvatarUrl, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
