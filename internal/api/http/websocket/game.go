package websocket

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/rootoid/impostor/internal/service/dto"
	"github.com/rootoid/impostor/internal/service/game"
	"github.com/rootoid/impostor/internal/state"
)

// Serve 升级连接并承载该连接的全部游戏意图
// 连接 ID 同时就是玩家 ID：没有额外的身份层，断线即离场
func Serve(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		connID := game.GenID()
		clientIP := ctx.RemoteAddr()

		respCh := make(chan dto.ResponseWrapper, 64)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		go writePump(conn, respCh, writeDoneCh, clientIP)

		zap.L().Info(
			"WebSocket连接建立",
			zap.String("client_ip", clientIP),
			zap.String("conn_id", connID),
		)

		// 读取循环（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
				) {
					zap.L().Error(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			var wrapper dto.RequestWrapper

			if err := json.Unmarshal(msg, &wrapper); err != nil {
				zap.L().Error(
					"解析消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				sendResp(respCh, dto.WrapErrResponse("无效的请求格式"))

				continue
			}

			dispatch(appState, connID, respCh, wrapper)
		}

		// 读循环退出，表示客户端断开连接，清理玩家
		if code, ok := appState.RoomSvc.RemovePlayer(connID); ok {
			zap.L().Info(
				"玩家断线，已从房间移除",
				zap.String("room_code", code),
				zap.String("player_id", connID),
			)
		}

		zap.L().Info(
			"WebSocket连接处理完成",
			zap.String("client_ip", clientIP),
			zap.String("conn_id", connID),
		)
	}
}

// dispatch 把一条客户端意图交给状态机
// 成功的变更由 RoomService 广播快照；失败只回给发送者，
// 同房间的其他人看不到任何状态变化
func dispatch(
	appState *state.AppState,
	connID string,
	respCh chan dto.ResponseWrapper,
	wrapper dto.RequestWrapper,
) {
	if req := dto.TryUnwrapCreateGameRequest(wrapper); req != nil {
		sess, err := appState.RoomSvc.CreateRoom(req.PlayerName, connID, respCh)
		if err != nil {
			sendResp(respCh, dto.WrapErrResponse(err.Error()))
			return
		}

		zap.L().Debug(
			"房间创建成功",
			zap.String("room_code", sess.RoomCode),
			zap.String("player_id", connID),
		)

		return
	}

	if req := dto.TryUnwrapJoinGameRequest(wrapper); req != nil {
		if _, err := appState.RoomSvc.JoinRoom(req.RoomCode, req.PlayerName, connID, respCh); err != nil {
			zap.L().Info(
				"加入房间被拒绝",
				zap.String("room_code", req.RoomCode),
				zap.String("player_id", connID),
				zap.Error(err),
			)

			sendResp(respCh, dto.WrapErrResponse(joinErrMsg(err)))
		}

		return
	}

	if req := dto.TryUnwrapStartGameRequest(wrapper); req != nil {
		if err := appState.RoomSvc.StartGame(req.RoomCode); err != nil {
			logRejected("StartGame", req.RoomCode, connID, err)
			sendResp(respCh, dto.WrapErrResponse(err.Error()))
		}

		return
	}

	if req := dto.TryUnwrapEndTurnRequest(wrapper); req != nil {
		if err := appState.RoomSvc.EndTurn(req.RoomCode); err != nil {
			logRejected("EndTurn", req.RoomCode, connID, err)
			sendResp(respCh, dto.WrapErrResponse(err.Error()))
		}

		return
	}

	if req := dto.TryUnwrapVoteRequest(wrapper); req != nil {
		if err := appState.RoomSvc.CastVote(req.RoomCode, connID, req.TargetID); err != nil {
			logRejected("Vote", req.RoomCode, connID, err)
			sendResp(respCh, dto.WrapErrResponse(err.Error()))
		}

		return
	}

	if req := dto.TryUnwrapPlayAgainRequest(wrapper); req != nil {
		if err := appState.RoomSvc.PlayAgain(req.RoomCode); err != nil {
			logRejected("PlayAgain", req.RoomCode, connID, err)
			sendResp(respCh, dto.WrapErrResponse(err.Error()))
		}

		return
	}

	sendResp(respCh, dto.WrapErrResponse("不支持的请求类型"))
}

// 加入失败对客户端统一成一条提示，避免探测房间码
func joinErrMsg(err error) string {
	if errors.Is(err, game.ErrRoomNotFound) || errors.Is(err, game.ErrGameAlreadyStarted) {
		return "房间不存在或游戏已开始"
	}

	return err.Error()
}

func logRejected(action, roomCode, connID string, err error) {
	zap.L().Info(
		"意图被前置条件拒绝",
		zap.String("action", action),
		zap.String("room_code", roomCode),
		zap.String("player_id", connID),
		zap.Error(err),
	)
}

func sendResp(respCh chan dto.ResponseWrapper, resp dto.ResponseWrapper) {
	select {
	case respCh <- resp:
	default:
		zap.L().Warn("发送响应失败：响应通道已满")
	}
}

// writePump 负责该连接的所有写入：心跳与响应下发
func writePump(
	conn *websocket.Conn,
	respCh <-chan dto.ResponseWrapper,
	writeDoneCh <-chan struct{},
	clientIP string,
) {
	ticker := time.NewTicker(HEARTBEAT_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-writeDoneCh:
			zap.L().Debug(
				"WebSocket写入协程退出",
				zap.String("client_ip", clientIP),
			)
			return

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zap.L().Error(
					"发送心跳失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}

		case resp, ok := <-respCh:
			// 通道被关闭说明房间已被清理，结束连接
			if !ok {
				zap.L().Info(
					"响应通道已关闭，退出写协程",
					zap.String("client_ip", clientIP),
				)

				conn.Close()

				return
			}

			if err := conn.WriteJSON(resp); err != nil {
				zap.L().Error(
					"发送消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}
		}
	}
}
