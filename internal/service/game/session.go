package game

import (
	"net/url"

	"go.uber.org/zap"

	"github.com/rootoid/impostor/internal/service/dto"
)

func (s *Session) FindPlayer(playerID string) *Player {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p
		}
	}

	return nil
}

func (s *Session) LivingPlayers() []*Player {
	living := make([]*Player, 0, len(s.Players))

	for _, p := range s.Players {
		if !p.IsDead {
			living = append(living, p)
		}
	}

	return living
}

func (s *Session) countLivingByRole() (impostors, innocents int) {
	for _, p := range s.Players {
		if p.IsDead {
			continue
		}

		switch p.Role {
		case ROLE_IMPOSTOR:
			impostors++
		case ROLE_INNOCENT:
			innocents++
		}
	}

	return impostors, innocents
}

// 所有存活玩家是否都已投出非空票（弃票也算）
func (s *Session) allLivingVoted() bool {
	for _, p := range s.Players {
		if !p.IsDead && p.Vote == "" {
			return false
		}
	}

	return true
}

// Snapshot 构造完整会话快照的广播响应
// 必须在持有会话锁时调用，序列化结果与后续变更互不影响
func (s *Session) Snapshot() dto.ResponseWrapper {
	return dto.WrapResponse(dto.RESP_GAME_UPDATED, mustMarshal(s))
}

func (s *Session) Broadcast(resp dto.ResponseWrapper) {
	for _, p := range s.Players {
		if p.RespCh == nil {
			continue
		}

		select {
		case p.RespCh <- resp:
		default:
			zap.L().Warn(
				"发送广播响应失败：玩家响应通道已满",
				zap.String("room_code", s.RoomCode),
				zap.String("player_id", p.ID),
			)
		}
	}
}

func avatarURL(name string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(name)
}
