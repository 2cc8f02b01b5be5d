package game

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

// RecordVote 把投票记在投票者身上（允许在裁决前任意次改票），
// 并返回是否所有存活玩家都已投票。裁决本身由调用方显式触发，
// 两步必须在同一次持锁内依次执行
func RecordVote(sess *Session, voterID, targetID string) (resolveDue bool, err error) {
	if sess.State != STATE_VOTING {
		return false, ErrNotVotingPhase
	}

	voter := sess.FindPlayer(voterID)
	if voter == nil || voter.IsDead {
		return false, ErrInvalidVoter
	}

	voter.Vote = targetID

	return sess.allLivingVoted(), nil
}

// Resolve 计票并裁决：
//  1. 统计非弃票的得票数
//  2. 单次遍历找最大票数并判断是否唯一：严格更大重置平票标记，
//     相等只置平票标记。平票不淘汰任何人
//  3. 唯一多数者被淘汰；淘汰的是卧底则平民立刻胜利，裁决终止
//  4. 否则按存活人数判定：卧底数 >= 平民数 时卧底胜利，
//     不然开启新一轮（重洗存活玩家的发言顺序、清空所有投票）
//
// 判卧底淘汰先于判人数对比，顺序不可交换
func Resolve(sess *Session) {
	tally := make(map[string]int)

	for _, p := range sess.Players {
		if p.Vote != "" && p.Vote != VOTE_SKIP {
			tally[p.Vote]++
		}
	}

	sess.CurrentRound.Votes = tally

	var leaderID string
	maxVotes := 0
	tie := false

	for targetID, count := range tally {
		switch {
		case count > maxVotes:
			maxVotes = count
			leaderID = targetID
			tie = false
		case count == maxVotes:
			tie = true
		}
	}

	if leaderID != "" && !tie {
		// 被票者可能已经离场，找不到就视同无人淘汰
		if eliminated := sess.FindPlayer(leaderID); eliminated != nil {
			eliminated.IsDead = true

			zap.L().Info(
				"玩家被投票淘汰",
				zap.String("room_code", sess.RoomCode),
				zap.String("player_id", eliminated.ID),
				zap.Int("votes", maxVotes),
			)

			if eliminated.Role == ROLE_IMPOSTOR {
				sess.Winner = WINNER_INNOCENTS
				sess.State = STATE_GAME_OVER
				return
			}
		}
	} else {
		zap.L().Info(
			"投票未产生唯一多数，无人被淘汰",
			zap.String("room_code", sess.RoomCode),
		)
	}

	impostors, innocents := sess.countLivingByRole()
	if impostors >= innocents {
		sess.Winner = WINNER_IMPOSTOR
		sess.State = STATE_GAME_OVER
		return
	}

	nextRound(sess)
}

// nextRound 用存活玩家重洗发言顺序并进入下一轮发言
func nextRound(sess *Session) {
	order := make([]string, 0, len(sess.Players))
	for _, p := range sess.Players {
		if !p.IsDead {
			order = append(order, p.ID)
		}
	}

	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	r := &sess.CurrentRound
	r.SpeakerOrder = order
	r.CurrentSpeakerIndex = 0
	r.RoundNumber++

	for _, p := range sess.Players {
		p.Vote = ""
	}

	sess.State = STATE_PLAYING
}
