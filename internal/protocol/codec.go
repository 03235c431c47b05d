// Группа: PROTOCOL - Канальный уровень
// Содержит: LineWriter, LineReader
package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// LineWriter пишет сообщения протокола по одному на строку.
// Не потокобезопасен: вызывающая сторона сериализует доступ сама.
type LineWriter struct {
	w *bufio.Writer
}

// NewLineWriter создаёт писатель поверх канала к процессу
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: bufio.NewWriter(w)}
}

// WriteMessage сериализует сообщение, записывает его одной строкой с
// завершающим переводом строки и сбрасывает буфер
func (lw *LineWriter) WriteMessage(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	if _, err := lw.w.Write(data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := lw.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write message delimiter: %w", err)
	}
	if err := lw.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush message: %w", err)
	}
	return nil
}

// LineReader читает сообщения протокола по одному на строку.
// Не потокобезопасен: вызывающая сторона сериализует доступ сама.
type LineReader struct {
	r *bufio.Reader
}

// NewLineReader создаёт читатель поверх канала от процесса
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// ReadLine блокирующе читает одну строку без завершающего перевода строки.
// Незавершённая строка перед EOF возвращается как данные: сообщение, которое
// плагин успел записать перед выходом, не теряется.
func (lr *LineReader) ReadLine() (string, error) {
	line, err := lr.r.ReadString('\n')
	if err != nil {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
