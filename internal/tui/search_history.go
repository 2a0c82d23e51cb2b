package tui

import "strings"

// searchHistory 保存搜索框的历史查询，支持上下箭头浏览。
// cursor == len(entries) 表示未在浏览历史，draft 为浏览前正在输入的内容。
type searchHistory struct {
	entries []string
	cursor  int
	draft   string
}

// Set 用持久化的历史初始化。
func (h *searchHistory) Set(entries []string) {
	h.entries = append([]string(nil), entries...)
	h.ResetBrowsing()
}

// Add 记录一次查询；与上一条相同时不重复记录。
func (h *searchHistory) Add(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	if n := len(h.entries); n == 0 || h.entries[n-1] != query {
		h.entries = append(h.entries, query)
	}
	h.ResetBrowsing()
}

func (h *searchHistory) ResetBrowsing() {
	h.cursor = len(h.entries)
	h.draft = ""
}

func (h *searchHistory) Prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == len(h.entries) {
		h.draft = current
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

func (h *searchHistory) Next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	if h.cursor < len(h.entries)-1 {
		h.cursor++
		return h.entries[h.cursor], true
	}
	h.cursor = len(h.entries)
	return h.draft, true
}
