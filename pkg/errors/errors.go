package errors

import "errors"

// ErrNoRowsAffected 写入被行级权限静默拒绝：UPDATE 返回零行且无错误。
// 调用方必须将其视为权限失败，而不是写入成功。
var ErrNoRowsAffected = errors.New("写入未影响任何行，可能被访问控制拒绝")
