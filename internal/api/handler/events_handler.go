package handler

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/redis"
)

// EventsHandler 变更事件流 HTTP 处理器 (SSE)
// 客户端收到事件后对受影响的数据做整体重新拉取，不做细粒度合并
type EventsHandler struct {
	rdb *redis.Client
}

// NewEventsHandler 创建 EventsHandler
func NewEventsHandler(rdb *redis.Client) *EventsHandler {
	return &EventsHandler{rdb: rdb}
}

// heartbeatInterval SSE 心跳间隔，防止中间代理断开空闲连接
const heartbeatInterval = 25 * time.Second

// Stream 订阅变更事件流
// GET /api/v1/events
// Redis 不可用时降级为仅心跳的空流（客户端退化为手动刷新）
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	var events <-chan redis.ChangeEvent
	if h.rdb != nil {
		events = h.rdb.SubscribeChanges(c.Request.Context())
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().Unix())
			return true
		case ev, ok := <-events:
			if !ok {
				return false
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				return true
			}
			c.SSEvent("change", string(payload))
			return true
		}
	})
}
