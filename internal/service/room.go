package service

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rootoid/impostor/internal/catalog"
	"github.com/rootoid/impostor/internal/service/dto"
	"github.com/rootoid/impostor/internal/service/game"
)

const roomCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RoomService 是所有游戏意图的统一入口：
// 存储层锁保护房间表，会话自带的房间锁保证每个状态机操作
// （包括最后一票触发的裁决）对同房间串行执行。加锁顺序恒为 存储 → 房间
type RoomService struct {
	state   *roomServiceState
	catalog *catalog.Catalog
}

type roomServiceState struct {
	mu sync.RWMutex

	// 从房间码到会话的映射
	rooms map[string]*game.Session

	cleanUpDone chan struct{}
}

func NewRoomService(cat *catalog.Catalog, sessionTTL time.Duration) *RoomService {
	state := &roomServiceState{
		rooms:       make(map[string]*game.Session),
		cleanUpDone: make(chan struct{}),
	}

	// 启动一个 goroutine 定期清理空闲过久的房间
	if sessionTTL > 0 {
		go startCleanupLoop(state, sessionTTL)
	}

	return &RoomService{
		state:   state,
		catalog: cat,
	}
}

func startCleanupLoop(state *roomServiceState, ttl time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-state.cleanUpDone:
			return

		case <-ticker.C:
			state.mu.Lock()

			for code, sess := range state.rooms {
				sess.Lock()

				if sess.IdleFor(ttl) {
					zap.S().Infof("房间 %s 空闲超过 %s，开始清理", code, ttl)

					// 通道归连接的读写协程所有，这里只发最后一条通知，
					// 连接会因心跳或客户端退出而自行关闭
					sess.Broadcast(dto.WrapErrResponse("房间已因长时间无活动被关闭"))

					delete(state.rooms, code)
				}

				sess.Unlock()
			}

			state.mu.Unlock()
		}
	}
}

func (rs *RoomService) Close() {
	close(rs.state.cleanUpDone)
}

// CreateRoom 建房：拒绝采样出一个未占用的 4 位大写字母房间码，
// 并以创建者为房主构造大厅状态的会话。快照只发给创建者（房里没有别人）
func (rs *RoomService) CreateRoom(hostName, hostID string, respCh chan dto.ResponseWrapper) (*game.Session, error) {
	if hostName == "" {
		return nil, errors.New("玩家名称不能为空")
	}

	rs.state.mu.Lock()

	code := rs.generateRoomCodeLocked()
	sess := game.NewSession(code, hostName, hostID, respCh)
	rs.state.rooms[code] = sess

	rs.state.mu.Unlock()

	zap.S().Infof("房间 %s 由 %s 创建", code, hostName)

	sess.Lock()
	sess.Broadcast(sess.Snapshot())
	sess.Unlock()

	return sess, nil
}

// 26^4 约 45.7 万个组合，冲突概率极低，但仍然必须重试而不是假设唯一
// 调用方持有存储层写锁
func (rs *RoomService) generateRoomCodeLocked() string {
	for {
		b := make([]byte, 4)
		for i := range b {
			b[i] = roomCodeLetters[rand.IntN(len(roomCodeLetters))]
		}

		code := string(b)
		if _, exists := rs.state.rooms[code]; !exists {
			return code
		}
	}
}

func (rs *RoomService) GetRoom(code string) (*game.Session, bool) {
	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	sess, ok := rs.state.rooms[strings.ToUpper(code)]

	return sess, ok
}

func (rs *RoomService) JoinRoom(code, playerName, playerID string, respCh chan dto.ResponseWrapper) (*game.Session, error) {
	if playerName == "" {
		return nil, errors.New("玩家名称不能为空")
	}

	sess, err := rs.withRoom(code, func(sess *game.Session) error {
		return game.Join(sess, playerName, playerID, respCh)
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infof("房间 %s 接纳玩家 %s", sess.RoomCode, playerName)

	return sess, nil
}

func (rs *RoomService) StartGame(code string) error {
	_, err := rs.withRoom(code, func(sess *game.Session) error {
		return game.Start(sess, rs.catalog)
	})

	return err
}

func (rs *RoomService) EndTurn(code string) error {
	_, err := rs.withRoom(code, func(sess *game.Session) error {
		game.AdvanceTurn(sess)
		return nil
	})

	return err
}

// CastVote 记票，最后一张合格票会在同一次持锁内同步触发裁决，
// 因此广播出去的可能已经是裁决后的状态（playing / game_over），
// 调用方必须按 state 分支，不能假设仍在 voting
func (rs *RoomService) CastVote(code, voterID, targetID string) error {
	_, err := rs.withRoom(code, func(sess *game.Session) error {
		resolveDue, err := game.RecordVote(sess, voterID, targetID)
		if err != nil {
			return err
		}

		if resolveDue {
			game.Resolve(sess)
		}

		return nil
	})

	return err
}

func (rs *RoomService) PlayAgain(code string) error {
	_, err := rs.withRoom(code, func(sess *game.Session) error {
		game.Reset(sess)
		return nil
	})

	return err
}

// RemovePlayer 在所有房间里找到持有这个连接 ID 的玩家并移除；
// 房间因此变空时整个删除。这是唯一的跨房间扫描，
// 预期房间规模下 O(rooms × players) 可以接受，不需要索引
func (rs *RoomService) RemovePlayer(playerID string) (string, bool) {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	for code, sess := range rs.state.rooms {
		sess.Lock()

		if !game.RemovePlayer(sess, playerID) {
			sess.Unlock()
			continue
		}

		if len(sess.Players) == 0 {
			delete(rs.state.rooms, code)
			sess.Unlock()

			zap.S().Infof("房间 %s 已无玩家，删除会话", code)

			return code, true
		}

		sess.Touch()
		sess.Broadcast(sess.Snapshot())
		sess.Unlock()

		return code, true
	}

	return "", false
}

// withRoom 查房、持房间锁执行变更，成功后在锁内广播快照
func (rs *RoomService) withRoom(code string, fn func(*game.Session) error) (*game.Session, error) {
	sess, ok := rs.GetRoom(code)
	if !ok {
		return nil, game.ErrRoomNotFound
	}

	sess.Lock()
	defer sess.Unlock()

	if err := fn(sess); err != nil {
		return nil, err
	}

	sess.Touch()
	sess.Broadcast(sess.Snapshot())

	return sess, nil
}
