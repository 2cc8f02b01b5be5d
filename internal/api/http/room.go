package http

import (
	"fmt"
	"strings"

	"github.com/kataras/iris/v12"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/rootoid/impostor/internal/state"
)

// RoomInfo 返回房间的公开概要，供加入表单在连接前校验房间码
func RoomInfo(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		code := strings.ToUpper(ctx.Params().Get("code"))

		sess, ok := appState.RoomSvc.GetRoom(code)
		if !ok {
			ctx.StatusCode(iris.StatusNotFound)
			ctx.JSON(iris.Map{
				"error": "房间不存在",
			})
			return
		}

		sess.Lock()
		resp := iris.Map{
			"roomCode":    sess.RoomCode,
			"state":       sess.State,
			"playerCount": len(sess.Players),
		}
		sess.Unlock()

		ctx.JSON(resp)
	}
}

// RoomQR 生成指向加入页面的二维码图片
func RoomQR(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		code := strings.ToUpper(ctx.Params().Get("code"))

		if _, ok := appState.RoomSvc.GetRoom(code); !ok {
			ctx.StatusCode(iris.StatusNotFound)
			ctx.JSON(iris.Map{
				"error": "房间不存在",
			})
			return
		}

		joinURL := fmt.Sprintf(
			"%s/?room=%s",
			strings.TrimSuffix(appState.Cfg.PublicURL, "/"),
			code,
		)

		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			zap.L().Error("生成二维码失败", zap.Error(err))
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": "生成二维码失败",
			})
			return
		}

		ctx.ContentType("image/png")
		ctx.Write(png)
	}
}
