package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scrollplayer/internal/config"
	"github.com/ivlev/scrollplayer/internal/log"
	"github.com/ivlev/scrollplayer/internal/remote"
	"github.com/ivlev/scrollplayer/internal/system"
)

var buildVersion = "dev"

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка конфигурации: %v\n", err)
		os.Exit(2)
	}
	logger := log.New(os.Stderr, log.LevelFromString(cfg.LogLevel))

	if err := run(cfg, logger); err != nil {
		logger.Errorf("Ошибка сервера: %v", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("scrollplayer", flag.ContinueOnError)

	configPtr := fs.String("config", "", "Путь к YAML-конфигу (флаги переопределяют значения из файла)")
	axisPtr := fs.String("axis", "", "Ось прокрутки: vertical, horizontal")
	directionPtr := fs.String("direction", "", "Направление вперед: down, up (vertical) или right, left (horizontal)")
	reversePtr := fs.Bool("reverse", false, "Инвертировать направление")
	factorPtr := fs.Int("factor", 0, "Чувствительность: сколько полных перемоток помещается в экран (>=1)")
	debugPtr := fs.Bool("debug", false, "Показывать время и полосу прогресса")
	throttlePtr := fs.Duration("throttle", 0, "Интервал обработки движений (по умолчанию 16ms)")
	framePtr := fs.Duration("frame", 0, "Интервал кадра (по умолчанию 1/60 с)")
	listenPtr := fs.String("listen", "", "Адрес HTTP-сервера (по умолчанию :8080)")
	videoDirPtr := fs.String("video-dir", "", "Папка с видео (берется самый свежий файл)")
	videoURLPtr := fs.String("url", "", "Внешний URL видео вместо файла из папки")
	logLevelPtr := fs.String("log-level", "", "Уровень логов: debug, info, warn, error, none")
	statsPtr := fs.Bool("stats", false, "Печатать отчет о производительности при выходе")
	noQRPtr := fs.Bool("no-qr", false, "Не печатать QR-код адреса")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["axis"] {
		cfg.Axis = *axisPtr
		if !set["direction"] {
			cfg.Direction = ""
		}
	}
	if set["direction"] {
		cfg.Direction = *directionPtr
	}
	if set["reverse"] {
		cfg.ReverseOverride = *reversePtr
	}
	if set["factor"] {
		cfg.Factor = *factorPtr
	}
	if set["debug"] {
		cfg.ShowDebug = *debugPtr
	}
	if set["throttle"] {
		cfg.ThrottleInterval = *throttlePtr
	}
	if set["frame"] {
		cfg.FrameInterval = *framePtr
	}
	if set["listen"] {
		cfg.Listen = *listenPtr
	}
	if set["video-dir"] {
		cfg.VideoDir = *videoDirPtr
	}
	if set["url"] {
		cfg.VideoURL = *videoURLPtr
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevelPtr
	}
	if set["stats"] {
		cfg.ShowStats = *statsPtr
	}
	if set["no-qr"] {
		cfg.ShowQR = !*noQRPtr
	}
	cfg.BuildVersion = buildVersion

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config, logger *log.Logger) error {
	startTime := time.Now()
	system.InitResourceLimits(logger)

	videoURL, mediaPath, err := resolveVideo(cfg, logger)
	if err != nil {
		return err
	}

	ac := cfg.AxisConfig()
	fmt.Println("--- [PROJECT: SCROLL PLAYER] ---")
	fmt.Printf("[*] Видео: %s\n", displayName(cfg.VideoURL, mediaPath))
	fmt.Printf("[*] Ось: %s | Реверс: %v | Фактор: %d | Отладка: %v\n", ac.Axis, ac.Reverse, ac.Factor, cfg.ShowDebug)
	fmt.Printf("[*] Движения: %s | Кадр: %s\n", cfg.ThrottleInterval, cfg.FrameInterval)
	fmt.Println("--------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := remote.NewHub(ctx, cfg, videoURL, logger)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           remote.Handler(hub, mediaPath),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := system.LocalURL(cfg.Listen)
	logger.Infof("Сервер запущен: %s", url)
	if cfg.ShowQR {
		if qr, err := system.QRString(url); err == nil {
			fmt.Print(qr)
			fmt.Println("[*] Откройте адрес на телефоне для управления касанием")
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	if cfg.ShowStats {
		lines := []string{fmt.Sprintf("Live players at exit: %d", hub.Live())}
		fmt.Print(system.Report(cfg.BuildVersion, time.Since(startTime), hub.Served(), lines))
	}
	if err != nil {
		return err
	}
	fmt.Println("[+++] Сервер остановлен")
	return nil
}

// resolveVideo picks what the page plays: the configured URL, or the newest
// file in VideoDir served at /media.
func resolveVideo(cfg *config.Config, logger *log.Logger) (videoURL, mediaPath string, err error) {
	if cfg.VideoURL != "" {
		return cfg.VideoURL, "", nil
	}
	if err := os.MkdirAll(cfg.VideoDir, 0755); err != nil {
		logger.Warnf("Не удалось создать папку %s: %v", cfg.VideoDir, err)
		return "", "", fmt.Errorf("video dir: %w", err)
	}
	latest, err := system.FindLatestVideo(cfg.VideoDir)
	if err != nil {
		return "", "", fmt.Errorf("%w. Положите видео в %s/ или укажите -url", err, cfg.VideoDir)
	}
	logger.Infof("Выбран файл: %s", latest)
	if dur, err := system.GetVideoDuration(latest); err == nil {
		logger.Infof("Длительность видео: %.2fs", dur)
	} else {
		logger.Debugf("ffprobe недоступен: %v", err)
	}
	return "/media", latest, nil
}

func displayName(url, path string) string {
	if url != "" {
		return url
	}
	return filepath.Base(path)
}
