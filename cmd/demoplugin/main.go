// Package main запускает демонстрационный плагин-провайдер Fonoteka.
//
// Плагин обслуживает проводной протокол на stdin/stdout поверх встроенного
// каталога. Завершается по запросу Shutdown или закрытию stdin хостом,
// отдельной обработки сигналов не требуется.
package main

import (
	"os"

	"go.uber.org/zap"

	"fonoteka/internal/domain/catalog"
	"fonoteka/internal/pluginserver"
	"fonoteka/pkg/logger"
)

const pluginVersion = "1.0.0"

func main() {
	// Инициализация логгера; stdout занят протоколом
	log := logger.New()

	library := catalog.DemoLibrary()

	srv := pluginserver.NewServer(pluginserver.Identity{
		ID:      library.ID(),
		Name:    library.Name(),
		Version: pluginVersion,
	}, library, log)

	log.Info("Demo plugin starting",
		zap.String("provider_id", library.ID()),
		zap.String("version", pluginVersion))

	if err := srv.Run(); err != nil {
		log.Error("Plugin stopped with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Plugin stopped successfully")
}
