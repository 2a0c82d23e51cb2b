// Package history persists transcript search queries between sessions.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLimit 是加载时保留的最近查询条数。
const DefaultLimit = 100

// ErrNoPath is returned when the store has no file to write to.
var ErrNoPath = errors.New("history store path is empty")

// Entry 是 JSONL 文件中的一行。
type Entry struct {
	Query   string    `json:"query"`
	Matches int       `json:"matches"`
	TS      time.Time `json:"ts"`
}

// Store 以追加方式把查询写入 JSONL 文件。
type Store struct {
	Path  string
	Limit int
	now   func() time.Time
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".agentwindow", "search_history.jsonl"), nil
}

// NewDefault 使用 ~/.agentwindow/search_history.jsonl。
func NewDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Store{Path: path}, nil
}

// Append 记录一次查询；空查询直接忽略。
func (s *Store) Append(query string, matches int) error {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return ErrNoPath
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(Entry{Query: query, Matches: matches, TS: s.clock()})
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// LoadQueries 返回最近的查询（旧的在前），最多 Limit 条。
// 文件不存在时返回空；无法解析的行被跳过。
func (s *Store) LoadQueries() ([]string, error) {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return nil, ErrNoPath
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if q := strings.TrimSpace(e.Query); q != "" {
			out = append(out, q)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
