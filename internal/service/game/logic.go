package game

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/rootoid/impostor/internal/catalog"
	"github.com/rootoid/impostor/internal/service/dto"
)

// 状态机操作。调用方（RoomService）负责持有会话锁

// Join 把新玩家追加到大厅中的会话
// 名字冲突不拒绝，追加一个随机后缀区分（仅用于显示，不保证稳定唯一）
func Join(sess *Session, playerName, playerID string, respCh chan dto.ResponseWrapper) error {
	if sess.State != STATE_LOBBY {
		return ErrGameAlreadyStarted
	}

	name := playerName
	for _, p := range sess.Players {
		if p.Name == name {
			name = fmt.Sprintf("%s %d", playerName, rand.IntN(100))
			break
		}
	}

	sess.Players = append(sess.Players, &Player{
		ID:     playerID,
		Name:   name,
		Avatar: avatarURL(name),
		RespCh: respCh,
	})

	return nil
}

// Start 开始新的一局：抽词、分配身份、洗出发言顺序
func Start(sess *Session, cat *catalog.Catalog) error {
	if len(sess.Players) < 3 {
		return ErrInsufficientPlayers
	}

	category, pair := cat.RandomPair()

	r := &sess.CurrentRound
	r.Category = category
	r.SecretWord = pair.Secret
	r.ImpostorWord = pair.Impostor

	// 先全员平民，再均匀抽取唯一的卧底
	for _, p := range sess.Players {
		p.Role = ROLE_INNOCENT
		p.Word = pair.Secret
		p.IsDead = false
		p.Vote = ""
	}

	impostor := sess.Players[rand.IntN(len(sess.Players))]
	impostor.Role = ROLE_IMPOSTOR
	impostor.Word = pair.Impostor

	order := make([]string, 0, len(sess.Players))
	for _, p := range sess.Players {
		order = append(order, p.ID)
	}

	// Fisher–Yates 洗牌，保证均匀的排列分布
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	r.SpeakerOrder = order
	r.CurrentSpeakerIndex = 0
	r.RoundNumber = 1
	r.TotalRounds = TOTAL_ROUNDS
	r.Votes = make(map[string]int)

	sess.State = STATE_PLAYING

	return nil
}

// AdvanceTurn 推进发言者下标，越过末尾时切换到投票阶段
// 不校验调用者是否是当前发言者（轮次约束只在客户端提示）
func AdvanceTurn(sess *Session) {
	r := &sess.CurrentRound
	r.CurrentSpeakerIndex++

	if r.CurrentSpeakerIndex >= len(r.SpeakerOrder) {
		sess.State = STATE_VOTING
	}
}

// Reset 把会话带回大厅，清空轮次数据与玩家的对局字段
// 分数跨局保留，显式不清零
func Reset(sess *Session) {
	sess.State = STATE_LOBBY
	sess.Winner = ""
	sess.CurrentRound = emptyRound()

	for _, p := range sess.Players {
		p.Role = ""
		p.Word = ""
		p.Vote = ""
		p.IsDead = false
	}
}

// RemovePlayer 把断开的玩家从会话中移除，返回是否找到了该玩家
// 对局进行中时会补偿缺口：出队发言顺序、复查投票法定人数、
// 卧底离场时直接判平民胜（否则对局永远无法结束）
func RemovePlayer(sess *Session, playerID string) bool {
	idx := -1
	for i, p := range sess.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}

	if idx == -1 {
		return false
	}

	departed := sess.Players[idx]
	sess.Players = append(sess.Players[:idx], sess.Players[idx+1:]...)

	if len(sess.Players) == 0 {
		return true
	}

	impostorLeftMidGame := departed.Role == ROLE_IMPOSTOR && !departed.IsDead &&
		(sess.State == STATE_PLAYING || sess.State == STATE_VOTING)

	if impostorLeftMidGame {
		zap.L().Info(
			"卧底中途离场，判定平民胜利",
			zap.String("room_code", sess.RoomCode),
			zap.String("player_id", playerID),
		)

		sess.Winner = WINNER_INNOCENTS
		sess.State = STATE_GAME_OVER

		return true
	}

	switch sess.State {
	case STATE_PLAYING:
		pruneSpeaker(sess, playerID)
	case STATE_VOTING:
		// 离场者的空票不再阻塞裁决
		if sess.allLivingVoted() {
			Resolve(sess)
		}
	}

	return true
}

// pruneSpeaker 把离场玩家从发言顺序中移除，并修正当前下标
func pruneSpeaker(sess *Session, playerID string) {
	r := &sess.CurrentRound

	for i, id := range r.SpeakerOrder {
		if id != playerID {
			continue
		}

		r.SpeakerOrder = append(r.SpeakerOrder[:i], r.SpeakerOrder[i+1:]...)

		if i < r.CurrentSpeakerIndex {
			r.CurrentSpeakerIndex--
		}

		break
	}

	if r.CurrentSpeakerIndex >= len(r.SpeakerOrder) {
		sess.State = STATE_VOTING
	}
}
