package http

import (
	"fmt"

	"github.com/kataras/iris/v12"

	"github.com/rootoid/impostor/internal/api/http/websocket"
	"github.com/rootoid/impostor/internal/state"
)

func RunServer(appState *state.AppState) error {
	app := iris.Default()

	app.HandleDir(
		"/",
		iris.Dir(appState.Cfg.StaticDir),
		iris.DirOptions{
			IndexName: "index.html",
			SPA:       true,
			Compress:  true,
		},
	)

	api := app.Party("/api/v1")

	api.Get("/rooms/{code:string}", RoomInfo(appState))
	api.Get("/rooms/{code:string}/qr", RoomQR(appState))

	api.Get("/ws", websocket.Serve(appState))

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	return app.Listen(addr)
}
