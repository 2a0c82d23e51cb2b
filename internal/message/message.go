package message

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Type 是消息的判别字段，决定图标与前缀。
type Type string

const (
	TypeGoal     Type = "goal"
	TypeThinking Type = "thinking"
	TypeTask     Type = "task"
	TypeAction   Type = "action"
	TypeSystem   Type = "system"
)

// ErrUnknownType is returned by ParseType for values outside the five variants.
var ErrUnknownType = errors.New("unknown message type")

// Types 按声明顺序返回全部合法类型。
func Types() []Type {
	return []Type{TypeGoal, TypeThinking, TypeTask, TypeAction, TypeSystem}
}

// Valid 判断类型是否属于五个变体之一。
func (t Type) Valid() bool {
	switch t {
	case TypeGoal, TypeThinking, TypeTask, TypeAction, TypeSystem:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	return string(t)
}

// ParseType 解析类型名（忽略大小写与首尾空白）。
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
	return t, nil
}

// Message 是一条对话记录。Info 只在 TypeAction 时有意义，用于替换默认前缀。
type Message struct {
	Type  Type   `toml:"type" json:"type"`
	Value string `toml:"value" json:"value"`
	Info  string `toml:"info,omitempty" json:"info,omitempty"`
}

func Goal(value string) Message     { return Message{Type: TypeGoal, Value: value} }
func Task(value string) Message     { return Message{Type: TypeTask, Value: value} }
func Thinking(value string) Message { return Message{Type: TypeThinking, Value: value} }
func System(value string) Message   { return Message{Type: TypeSystem, Value: value} }

// Action builds an action message; an empty info keeps the default prefix.
func Action(value, info string) Message {
	return Message{Type: TypeAction, Value: value, Info: info}
}

// PlaceholderText 是空对话时展示的系统提示。
const PlaceholderText = "> Create an agent by adding a name / goal, and hitting deploy!"

// Placeholder returns the synthetic system message shown for an empty transcript.
func Placeholder() Message {
	return System(PlaceholderText)
}

// Key 由位置与类型组成渲染键，例如 "0-goal"。
func Key(index int, msg Message) string {
	return strconv.Itoa(index) + "-" + string(msg.Type)
}

// Icon 标识消息行前的图标。
type Icon int

const (
	IconNone Icon = iota
	IconStar
	IconList
	IconBrain
	IconPlay
)

func (i Icon) String() string {
	switch i {
	case IconStar:
		return "star"
	case IconList:
		return "list"
	case IconBrain:
		return "brain"
	case IconPlay:
		return "play"
	default:
		return "none"
	}
}

// IconFor maps a message to its icon. System and unknown types have none.
func IconFor(msg Message) Icon {
	switch msg.Type {
	case TypeGoal:
		return IconStar
	case TypeTask:
		return IconList
	case TypeThinking:
		return IconBrain
	case TypeAction:
		return IconPlay
	}
	return IconNone
}

// PrefixFor maps a message to its bold label. System and unknown types have none.
func PrefixFor(msg Message) string {
	switch msg.Type {
	case TypeGoal:
		return "Embarking on a new goal:"
	case TypeTask:
		return "Added task:"
	case TypeThinking:
		return "Thinking..."
	case TypeAction:
		if msg.Info != "" {
			return msg.Info
		}
		return "Executing:"
	}
	return ""
}
