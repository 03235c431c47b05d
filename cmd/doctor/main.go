// Package main запускает диагностику провайдеров Fonoteka.
//
// Доктор строит выбранного провайдера (внешний плагин или встроенный каталог),
// прогоняет проверки контракта через слой кеширования и печатает отчет.
// Код выхода 1 означает проваленные проверки.
package main

import (
	"context"
	"fmt"
	"fonoteka/internal/app"
	"fonoteka/internal/config"
	"fonoteka/pkg/logger"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	providerFlag := flag.String("provider", "", "provider id from providers config (defaults to default_provider)")
	profileFlag := flag.String("profile", "", "profile name within the provider block")
	queryFlag := flag.String("query", "", "search query used to probe the provider")
	flag.Parse()

	// Инициализация логгера
	log := logger.New()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Создание контекста
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	// Создание приложения через фабрику
	application, err := app.NewAppWithFactory(cfg, app.Options{
		Provider: *providerFlag,
		Profile:  *profileFlag,
		Query:    *queryFlag,
	}, log)
	if err != nil {
		log.Fatal("Failed to create application", zap.Error(err))
	}

	report, err := application.Run(ctx)
	if err != nil {
		log.Error("Diagnostics failed", zap.Error(err))
		_ = application.Stop()
		os.Exit(1)
	}

	fmt.Println(renderReport(report))

	if err := application.Stop(); err != nil {
		log.Error("Failed to stop application", zap.Error(err))
	}

	if !report.Healthy {
		os.Exit(1)
	}

	log.Info("Diagnostics finished successfully")
}
