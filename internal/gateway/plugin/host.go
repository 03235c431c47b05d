// Группа: GATEWAY - Хост плагина
// Содержит: LaunchConfig, State, Host
package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"fonoteka/internal/protocol"
	"fonoteka/pkg/redact"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stopGraceTimeout ограничивает ожидание добровольного выхода плагина после
// отправки Shutdown; по истечении процесс убивается принудительно.
const stopGraceTimeout = 3 * time.Second

// LaunchConfig представляет параметры запуска процесса плагина
type LaunchConfig struct {
	Executable string
	Args       []string
	WorkingDir string
	Env        map[string]string
}

// State представляет состояние жизненного цикла хоста
type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateRunning
	StateStopped
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Host представляет запущенный процесс плагина и канал запрос-ответ к нему.
// Все операции сериализуются: одновременно в полёте не больше одного запроса,
// конвейеризации протокол не допускает.
type Host struct {
	config LaunchConfig
	logger *zap.Logger
	log    *zap.Logger

	requestID atomic.Uint64

	childMu sync.Mutex
	cmd     *exec.Cmd

	// stdinMu берётся раньше stdoutMu и удерживается весь цикл запроса,
	// чтобы чужой запрос не вклинился между записью и чтением.
	stdinMu sync.Mutex
	stdin   io.WriteCloser
	writer  *protocol.LineWriter

	stdoutMu sync.Mutex
	reader   *protocol.LineReader

	stateMu sync.Mutex
	state   State
	info    *protocol.Info
	fatal   error
	exited  chan struct{}
}

// NewHost создаёт хост для плагина; процесс не запускается до вызова Start
func NewHost(config LaunchConfig, logger *zap.Logger) *Host {
	return &Host{
		config: config,
		logger: logger,
		log:    logger,
		state:  StateNotStarted,
	}
}

// Start запускает процесс плагина и выполняет рукопожатие Initialize.
// При несовпадении версии протокола или некорректном ответе процесс
// убивается: частично инициализированный бэкенд не остаётся жить.
func (h *Host) Start() error {
	h.stateMu.Lock()
	if h.state == StateStarting || h.state == StateRunning {
		h.stateMu.Unlock()
		return fmt.Errorf("plugin host already started")
	}
	h.state = StateStarting
	h.info = nil
	h.fatal = nil
	h.exited = make(chan struct{})
	exited := h.exited
	h.stateMu.Unlock()

	log := h.logger.With(
		zap.String("session_id", uuid.New().String()),
		zap.String("executable", h.config.Executable),
	)
	h.log = log

	cmd := exec.Command(h.config.Executable, h.config.Args...)
	cmd.Dir = h.config.WorkingDir
	cmd.Env = append(os.Environ(), flattenEnv(h.config.Env)...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		h.setState(StateStopped)
		return fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		h.setState(StateStopped)
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	log.Debug("Launching plugin process",
		zap.Strings("args", h.config.Args),
		zap.String("working_dir", h.config.WorkingDir),
		zap.Any("env", redactEnv(h.config.Env)))

	if err := cmd.Start(); err != nil {
		h.setState(StateStopped)
		return fmt.Errorf("failed to spawn plugin process '%s': %w", h.config.Executable, err)
	}

	h.childMu.Lock()
	h.cmd = cmd
	h.childMu.Unlock()

	h.stdinMu.Lock()
	h.stdin = stdin
	h.writer = protocol.NewLineWriter(stdin)
	h.stdinMu.Unlock()

	h.stdoutMu.Lock()
	h.reader = protocol.NewLineReader(stdout)
	h.stdoutMu.Unlock()

	go h.reap(cmd, exited)

	info, err := h.initialize()
	if err != nil {
		h.abortStart(cmd, exited)
		return err
	}
	if info.ProtocolVersion != protocol.Version {
		h.abortStart(cmd, exited)
		return &VersionError{Expected: protocol.Version, Actual: info.ProtocolVersion}
	}

	h.stateMu.Lock()
	h.state = StateRunning
	h.info = info
	h.stateMu.Unlock()

	log.Info("Plugin host started successfully",
		zap.String("plugin_name", info.Name),
		zap.String("plugin_version", info.Version),
		zap.Uint32("protocol_version", info.ProtocolVersion))
	return nil
}

// initialize выполняет рукопожатие; вызывается до перехода в Running
func (h *Host) initialize() (*protocol.Info, error) {
	result, err := h.roundTrip(protocol.NewMethod(protocol.MethodInitialize))
	if err != nil {
		return nil, fmt.Errorf("plugin handshake failed: %w", err)
	}
	if result.Status != protocol.StatusInitialized || result.Info == nil {
		return nil, fmt.Errorf("plugin handshake failed: %w: got %s", ErrUnexpectedResponse, result.Status)
	}
	return result.Info, nil
}

// abortStart сворачивает неудачный запуск: процесс убивается и дожидается,
// состояние остаётся Stopped, повторный Start допустим.
func (h *Host) abortStart(cmd *exec.Cmd, exited chan struct{}) {
	h.setState(StateStopped)
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	<-exited
}

// reap единолично владеет cmd.Wait: дожидается выхода процесса, фиксирует
// падение, если хост его не ожидал, и закрывает канал exited.
func (h *Host) reap(cmd *exec.Cmd, exited chan struct{}) {
	err := cmd.Wait()

	h.stateMu.Lock()
	unexpected := h.state == StateRunning || h.state == StateStarting
	if unexpected {
		h.state = StateCrashed
		if h.fatal == nil {
			h.fatal = ErrProcessTerminated
		}
	}
	h.stateMu.Unlock()
	close(exited)

	if unexpected {
		h.log.Warn("Plugin process terminated unexpectedly", zap.Error(err))
	} else {
		h.log.Debug("Plugin process exited", zap.Error(err))
	}
}

// Stop завершает процесс плагина. Живой сессии сначала по возможности
// отправляется Shutdown, затем ожидается добровольный выход с ограничением
// по времени, после чего процесс убивается. Ответ на Shutdown не читается:
// зависший плагин не должен подвешивать выключение хоста.
func (h *Host) Stop() error {
	h.stateMu.Lock()
	prev := h.state
	if prev != StateRunning && prev != StateCrashed {
		h.stateMu.Unlock()
		return nil
	}
	h.state = StateStopped
	exited := h.exited
	h.stateMu.Unlock()

	if prev == StateRunning && h.stdinMu.TryLock() {
		// Канал записи свободен: просим плагин выйти самому и закрываем
		// stdin, для корректного плагина это двойной сигнал завершения.
		req := protocol.Request{
			ID:     h.requestID.Add(1),
			Method: protocol.NewMethod(protocol.MethodShutdown),
		}
		if err := h.writer.WriteMessage(req); err != nil {
			h.log.Debug("Shutdown request not delivered", zap.Error(err))
		}
		_ = h.stdin.Close()
		h.stdinMu.Unlock()

		select {
		case <-exited:
		case <-time.After(stopGraceTimeout):
			h.log.Warn("Plugin did not exit in time, killing process")
			h.kill()
		}
	} else {
		// Канал занят или сессия уже сломана: процесс гасится сразу.
		// Kill по уже завершённому процессу безвреден.
		h.kill()
	}
	<-exited

	h.log.Info("Plugin host stopped successfully")
	return nil
}

func (h *Host) kill() {
	h.childMu.Lock()
	cmd := h.cmd
	h.childMu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// Close завершает процесс плагина; псевдоним Stop для defer-цепочек
func (h *Host) Close() error {
	return h.Stop()
}

// IsRunning сообщает, жив ли хост для новых запросов
func (h *Host) IsRunning() bool {
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	return h.state == StateRunning && h.fatal == nil
}

// State возвращает текущее состояние жизненного цикла
func (h *Host) State() State {
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	return h.state
}

// Info возвращает данные рукопожатия запущенного плагина
func (h *Host) Info() (protocol.Info, error) {
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	if h.info == nil {
		return protocol.Info{}, fmt.Errorf("plugin host is not initialized")
	}
	return *h.info, nil
}

// SendRequest выполняет один цикл запрос-ответ с плагином.
// Результат Error превращается в *CallError: вызов не удался, но сессия
// остаётся рабочей. Фатальные сбои (выход процесса, потеря корреляции)
// запоминаются, и все последующие вызовы отклоняются без обращения к каналу.
func (h *Host) SendRequest(method protocol.Method) (*protocol.Result, error) {
	h.stateMu.Lock()
	if h.fatal != nil {
		err := h.fatal
		h.stateMu.Unlock()
		return nil, err
	}
	if h.state != StateRunning {
		state := h.state
		h.stateMu.Unlock()
		return nil, fmt.Errorf("plugin host is not running (state: %s)", state)
	}
	h.stateMu.Unlock()

	return h.roundTrip(method)
}

// roundTrip пишет запрос и читает ровно один ответ, не проверяя состояние;
// используется и рукопожатием до перехода в Running
func (h *Host) roundTrip(method protocol.Method) (*protocol.Result, error) {
	id := h.requestID.Add(1)

	h.stdinMu.Lock()
	defer h.stdinMu.Unlock()
	h.stdoutMu.Lock()
	defer h.stdoutMu.Unlock()

	h.log.Debug("Sending plugin request",
		zap.Uint64("request_id", id),
		zap.String("method", string(method.Type)))

	req := protocol.Request{ID: id, Method: method}
	if err := h.writer.WriteMessage(req); err != nil {
		// Ошибка записи не фатальна сама по себе: если причиной был выход
		// процесса, его зафиксирует reap или следующее чтение.
		return nil, fmt.Errorf("failed to write request to plugin: %w", err)
	}

	line, err := h.reader.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
			h.latchTermination()
			return nil, ErrProcessTerminated
		}
		return nil, fmt.Errorf("failed to read response from plugin: %w", err)
	}

	var resp protocol.Response
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse plugin response: %w", err)
	}

	if resp.ID != id {
		corr := &CorrelationError{Sent: id, Received: resp.ID}
		h.latchFatal(corr)
		return nil, corr
	}

	h.log.Debug("Received plugin response",
		zap.Uint64("request_id", resp.ID),
		zap.String("status", string(resp.Result.Status)))

	if resp.Result.Status == protocol.StatusError {
		return nil, &CallError{Wire: resp.Result.Err}
	}
	return &resp.Result, nil
}

// latchTermination фиксирует выход процесса, обнаруженный по каналу чтения
func (h *Host) latchTermination() {
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	if h.state != StateRunning && h.state != StateStarting {
		return
	}
	h.state = StateCrashed
	if h.fatal == nil {
		h.fatal = ErrProcessTerminated
	}
}

// latchFatal выводит хост из строя до перезапуска
func (h *Host) latchFatal(err error) {
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	if h.state != StateRunning && h.state != StateStarting {
		return
	}
	if h.fatal == nil {
		h.fatal = err
	}
}

func (h *Host) setState(s State) {
	h.stateMu.Lock()
	h.state = s
	h.stateMu.Unlock()
}

// flattenEnv раскладывает карту окружения в форму exec.Cmd с устойчивым
// порядком переменных
func flattenEnv(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, k+"="+env[k])
	}
	return entries
}

// redactEnv готовит окружение плагина к записи в лог
func redactEnv(env map[string]string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = redact.EnvValue(k, v)
	}
	return out
}
