package services

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound 会话不存在
var ErrSessionNotFound = errors.New("会话不存在")

// ValidationError 输入校验失败，调用方应返回4xx
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("字段 %s 不能为空", e.Field)
}

// GenerationError 必需内容生成失败，调用方应返回5xx
// Step 标记失败的生成步骤（outfit/moodboard/poem/playlist）
type GenerationError struct {
	Step string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("生成%s失败: %v", e.Step, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// PersistenceError 会话持久化失败，已生成的内容会丢失
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("保存会话失败: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
