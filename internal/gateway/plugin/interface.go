// Группа: GATEWAY - Интерфейс хоста
// Содержит: PluginHost (интерфейс хоста плагина)
package plugin

import (
	"fonoteka/internal/protocol"
)

// PluginHost определяет интерфейс управления процессом плагина.
// Адаптер провайдера работает только через него, что позволяет подменять
// хост в тестах без запуска реального процесса.
type PluginHost interface {
	// Start запускает процесс и выполняет рукопожатие
	Start() error
	// Stop завершает процесс; на незапущенном хосте ничего не делает
	Stop() error
	// IsRunning сообщает, принимает ли хост новые запросы
	IsRunning() bool
	// Info возвращает данные рукопожатия
	Info() (protocol.Info, error)
	// SendRequest выполняет один цикл запрос-ответ
	SendRequest(method protocol.Method) (*protocol.Result, error)
}

var _ PluginHost = (*Host)(nil)
