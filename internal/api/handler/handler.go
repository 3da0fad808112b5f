package handler

import (
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/service"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/redis"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Handoff *HandoffHandler
	Meta    *MetaHandler
	Relay   *RelayHandler
	Events  *EventsHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, rdb *redis.Client) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		Profile: NewProfileHandler(svc.Profile),
		Handoff: NewHandoffHandler(svc.Handoff),
		Meta:    NewMetaHandler(svc.Meta),
		Relay:   NewRelayHandler(svc.Relay),
		Events:  NewEventsHandler(rdb),
		Export:  NewExportHandler(svc.Export),
	}
}
