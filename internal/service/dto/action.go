package dto

// 客户端通过 WebSocket 发送的游戏意图
// 除 CreateGame 外都携带房间码；发送者身份由连接本身决定

type CreateGameRequest struct {
	PlayerName string `json:"playerName"`
}

type JoinGameRequest struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type StartGameRequest struct {
	RoomCode string `json:"roomCode"`
}

type EndTurnRequest struct {
	RoomCode string `json:"roomCode"`
}

// TargetID 可以是玩家 ID，也可以是哨兵值 "skip"
type VoteRequest struct {
	RoomCode string `json:"roomCode"`
	TargetID string `json:"targetId"`
}

type PlayAgainRequest struct {
	RoomCode string `json:"roomCode"`
}
