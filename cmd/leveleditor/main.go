package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"LevelEditor/internal/editor/app"
	"LevelEditor/internal/editor/infra/filestore"
	"LevelEditor/internal/editor/infra/journal"
	editorhttp "LevelEditor/internal/editor/interfaces/http"
	"LevelEditor/internal/level/defs"
	"LevelEditor/internal/shared/config"
	"LevelEditor/internal/shared/logs"
	transporthttp "LevelEditor/internal/shared/transport/http"
	"LevelEditor/internal/shared/transport/ws"
)

func main() {
	flags := pflag.NewFlagSet("leveleditor", pflag.ExitOnError)
	cfgPath := flags.StringP("config", "c", "", "config file (default: search configs/conf.yml upward)")
	flags.String("host", "", "listen host")
	flags.IntP("port", "p", 0, "listen port")
	flags.String("root", "", "level directory")
	flags.String("log-level", "", "log level")
	_ = flags.Parse(os.Args[1:])

	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	overrides := map[string]string{"store.root": "root", "log.level": "log-level"}
	if flags.Changed("host") {
		overrides["http.host"] = "host"
	}
	if flags.Changed("port") {
		overrides["http.port"] = "port"
	}
	if err := loader.BindFlags(flags, overrides); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	conf, err := loader.Decode()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := logs.Init("leveleditor", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.String("path", loader.Path()), zap.Any("conf", conf))
	loader.Watch(func(c config.Config, err error) {
		if err != nil {
			logs.Warn("config reload failed", zap.Error(err))
			return
		}
		logs.SetLevel(c.Log.Level)
		logs.Info("config reloaded", zap.String("log_level", c.Log.Level))
	})

	if err := run(conf); err != nil {
		logs.Fatal("leveleditor exit", zap.Error(err))
	}
}

func run(conf config.Config) error {
	baseLogger := logs.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	saves, closeJournal, err := journal.Open(ctx, conf.Journal, baseLogger)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() {
		_ = closeJournal()
	}()

	defsSource := defs.FileSource{
		Loader:     defs.NewLoader(),
		TilesPath:  defsPath(conf.Store.Root, conf.Defs.TilesFile),
		SpawnsPath: defsPath(conf.Store.Root, conf.Defs.SpawnsFile),
	}

	wsRouter := ws.NewRouter(baseLogger)
	hub := ws.NewHub(wsRouter, baseLogger)
	defer hub.Close()

	editor := app.NewEditorService(
		filestore.NewOS(conf.Store.Root),
		defs.NewCatalog(nil, nil),
		baseLogger,
		app.WithJournal(saves),
		app.WithEvents(hub),
		app.WithDefs(defsSource),
	)
	editor.ReloadDefs(ctx)

	if conf.Defs.Watch {
		watcher, err := defs.NewWatcher(defsSource.TilesPath, defsSource.SpawnsPath)
		if err != nil {
			logs.Warn("defs watcher disabled", zap.Error(err))
		} else {
			defer func() {
				_ = watcher.Close()
			}()
			go watchDefs(ctx, watcher, editor)
		}
	}

	handler := editorhttp.NewHandler(editor, baseLogger)
	handler.RegisterWS(wsRouter)
	logs.Debug("ws routes registered", zap.Strings("routes", wsRouter.Routes()))

	gin.SetMode(gin.ReleaseMode)
	httpServer := transporthttp.NewHttpServer(conf.HTTP.Addr(), baseLogger, transporthttp.WithHealth(func() any {
		return gin.H{"ws_clients": hub.Count(), "level": editor.Status()}
	}))
	handler.RegisterRoutes(httpServer.Group())
	httpServer.Engine().GET("/ws", gin.WrapH(hub))

	errCh := make(chan error, 1)
	go func() {
		logs.Info("leveleditor listening", zap.String("addr", conf.HTTP.Addr()))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logs.Warn("http shutdown", zap.Error(err))
	}
	return runErr
}

func watchDefs(ctx context.Context, w *defs.Watcher, editor *app.EditorService) {
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			logs.Info("defs file changed", zap.String("file", name))
			editor.ReloadDefs(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logs.Warn("defs watcher error", zap.Error(err))
		case <-ctx.Done():
			return
		}
	}
}

// defsPath 把相对的定义文件路径解析到关卡目录下。
func defsPath(root, name string) string {
	if filepath.IsAbs(name) || root == "" {
		return name
	}
	return filepath.Join(root, name)
}
