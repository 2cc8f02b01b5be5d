package state

import (
	"github.com/rootoid/impostor/internal/config"
	"github.com/rootoid/impostor/internal/service"
)

type AppState struct {
	Cfg     *config.AppConfig
	RoomSvc *service.RoomService
}

func NewAppState(
	cfg *config.AppConfig,
	roomSvc *service.RoomService,
) *AppState {
	return &AppState{
		Cfg:     cfg,
		RoomSvc: roomSvc,
	}
}
