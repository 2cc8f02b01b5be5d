package game

import "errors"

var (
	ErrRoomNotFound        = errors.New("房间不存在")
	ErrGameAlreadyStarted  = errors.New("游戏已经开始，无法加入")
	ErrInsufficientPlayers = errors.New("玩家数量不足 3 人，无法开始游戏")
	ErrNotVotingPhase      = errors.New("当前不在投票阶段")
	ErrInvalidVoter        = errors.New("投票者不存在或已被淘汰")
)
