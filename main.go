package main

import (
	"github.com/spf13/cobra"

	"github.com/rootoid/impostor/internal/api/http"
	"github.com/rootoid/impostor/internal/catalog"
	"github.com/rootoid/impostor/internal/config"
	"github.com/rootoid/impostor/internal/logger"
	"github.com/rootoid/impostor/internal/service"
	"github.com/rootoid/impostor/internal/state"
)

func main() {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "impostor-be",
		Short:         "谁是卧底风格的房间制推理游戏后端",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 加载配置
			cfg := config.InitConfig(cfgPath)

			// 初始化日志器
			logger.InitLogger(cfg.LogLevel)

			// 加载词库
			cat, err := catalog.Load(cfg.WordsPath)
			if err != nil {
				return err
			}

			roomSvc := service.NewRoomService(cat, cfg.SessionTTL)
			defer roomSvc.Close()

			// 组装应用状态
			appState := state.NewAppState(cfg, roomSvc)

			// 启动服务器
			return http.RunServer(appState)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "app_config", "配置文件路径")

	cobra.CheckErr(cmd.Execute())
}
