package dto

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_CREATE_GAME = "CreateGame"
	REQ_JOIN_GAME   = "JoinGame"
	REQ_START_GAME  = "StartGame"
	REQ_END_TURN    = "EndTurn"
	REQ_VOTE        = "Vote"
	REQ_PLAY_AGAIN  = "PlayAgain"
)

type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data"`
}

func TryUnwrapCreateGameRequest(wrapper RequestWrapper) *CreateGameRequest {
	if wrapper.ReqType != REQ_CREATE_GAME {
		return nil
	}

	var createGameRequest CreateGameRequest

	err := json.Unmarshal(wrapper.Data, &createGameRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap CreateGameRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &createGameRequest
}

func TryUnwrapJoinGameRequest(wrapper RequestWrapper) *JoinGameRequest {
	if wrapper.ReqType != REQ_JOIN_GAME {
		return nil
	}

	var joinGameRequest JoinGameRequest

	err := json.Unmarshal(wrapper.Data, &joinGameRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap JoinGameRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &joinGameRequest
}

func TryUnwrapStartGameRequest(wrapper RequestWrapper) *StartGameRequest {
	if wrapper.ReqType != REQ_START_GAME {
		return nil
	}

	var startGameRequest StartGameRequest

	err := json.Unmarshal(wrapper.Data, &startGameRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap StartGameRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &startGameRequest
}

func TryUnwrapEndTurnRequest(wrapper RequestWrapper) *EndTurnRequest {
	if wrapper.ReqType != REQ_END_TURN {
		return nil
	}

	var endTurnRequest EndTurnRequest

	err := json.Unmarshal(wrapper.Data, &endTurnRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap EndTurnRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &endTurnRequest
}

func TryUnwrapVoteRequest(wrapper RequestWrapper) *VoteRequest {
	if wrapper.ReqType != REQ_VOTE {
		return nil
	}

	var voteRequest VoteRequest

	err := json.Unmarshal(wrapper.Data, &voteRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap VoteRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &voteRequest
}

func TryUnwrapPlayAgainRequest(wrapper RequestWrapper) *PlayAgainRequest {
	if wrapper.ReqType != REQ_PLAY_AGAIN {
		return nil
	}

	var playAgainRequest PlayAgainRequest

	err := json.Unmarshal(wrapper.Data, &playAgainRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap PlayAgainRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &playAgainRequest
}

// 响应类型
// 每次成功的状态变更都广播完整的会话快照，而不是增量
const (
	RESP_ERROR        = "Error"
	RESP_GAME_UPDATED = "GameUpdated"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data,omitempty"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}
