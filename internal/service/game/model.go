package game

import (
	"sync"
	"time"

	"github.com/rootoid/impostor/internal/service/dto"
)

// 会话生命周期阶段
// 状态在一轮循环内单调推进：lobby → playing → voting → (playing | game_over)
// game_over 只能通过显式重置回到 lobby
const (
	STATE_LOBBY     = "lobby"
	STATE_PLAYING   = "playing"
	STATE_VOTING    = "voting"
	STATE_GAME_OVER = "game_over"
)

// 玩家身份，开局前为空
const (
	ROLE_INNOCENT = "innocent"
	ROLE_IMPOSTOR = "impostor"
)

// 胜利方
const (
	WINNER_INNOCENTS = "innocents"
	WINNER_IMPOSTOR  = "impostor"
)

// 弃票哨兵值：计入投票人数，但永远不计入淘汰票数
const VOTE_SKIP = "skip"

const TOTAL_ROUNDS = 3

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
	Avatar string `json:"avatar,omitempty"`
	// Role、Word、Vote 仅在对局进行中有值
	Role   string `json:"role,omitempty"`
	Word   string `json:"word,omitempty"`
	Vote   string `json:"vote,omitempty"`
	Score  int    `json:"score"`
	IsDead bool   `json:"isDead"`

	RespCh chan dto.ResponseWrapper `json:"-"`
}

// 设置项随会话携带，但核心流程不使用（单卧底、无回合计时）
type Settings struct {
	RoundTime     int `json:"roundTime"`
	ImpostorCount int `json:"impostorCount"`
}

type Round struct {
	Category            string         `json:"category"`
	SecretWord          string         `json:"secretWord"`
	ImpostorWord        string         `json:"impostorWord"`
	SpeakerOrder        []string       `json:"speakerOrder"`
	CurrentSpeakerIndex int            `json:"currentSpeakerIndex"`
	RoundNumber         int            `json:"roundNumber"`
	TotalRounds         int            `json:"totalRounds"`
	// 裁决时写入的最终计票快照（不含弃票）
	Votes map[string]int `json:"votes"`
}

type Session struct {
	// 房间级互斥区：每个状态机操作全程持有，
	// 保证"所有存活玩家已投票"的检查与后续裁决对同房间的其他投票原子
	mu sync.Mutex

	RoomCode     string    `json:"roomCode"`
	State        string    `json:"state"`
	Players      []*Player `json:"players"`
	Settings     Settings  `json:"settings"`
	CurrentRound Round     `json:"currentRound"`
	Winner       string    `json:"winner,omitempty"`

	touchedAt time.Time
}

func NewSession(roomCode, hostName, hostID string, respCh chan dto.ResponseWrapper) *Session {
	host := &Player{
		ID:     hostID,
		Name:   hostName,
		IsHost: true,
		Avatar: avatarURL(hostName),
		RespCh: respCh,
	}

	return &Session{
		RoomCode: roomCode,
		State:    STATE_LOBBY,
		Players:  []*Player{host},
		Settings: Settings{
			RoundTime:     60,
			ImpostorCount: 1,
		},
		CurrentRound: emptyRound(),
		touchedAt:    time.Now(),
	}
}

func emptyRound() Round {
	return Round{
		SpeakerOrder: make([]string, 0),
		TotalRounds:  TOTAL_ROUNDS,
		Votes:        make(map[string]int),
	}
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

func (s *Session) Touch() {
	s.touchedAt = time.Now()
}

func (s *Session) IdleFor(ttl time.Duration) bool {
	return time.Since(s.touchedAt) > ttl
}
