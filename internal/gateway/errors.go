package gateway

import "errors"

var (
	// ErrTransport 表示网络错误或者远程服务返回了非 2xx 状态码
	ErrTransport = errors.New("planner service request failed")

	// ErrInvalidPayload 表示远程服务的响应不符合约定的结构
	ErrInvalidPayload = errors.New("planner service returned an invalid payload")
)
