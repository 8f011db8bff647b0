// Package publish 负责把排班摘要发送到 Teams webhook，可以直接走远程服务，也可以经过消息队列
package publish

import (
	"context"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, sessionID string, payload domain.PublishPayload) error
	Mode() string
}

// TeamsGateway 由 gateway.Client 实现
type TeamsGateway interface {
	PublishToTeams(ctx context.Context, payload domain.PublishPayload) error
}

// GatewayPublisher 调用远程服务的 /teams/publish
type GatewayPublisher struct {
	gateway TeamsGateway
}

func NewGatewayPublisher(gateway TeamsGateway) *GatewayPublisher {
	return &GatewayPublisher{gateway: gateway}
}

func (p *GatewayPublisher) Publish(ctx context.Context, _ string, payload domain.PublishPayload) error {
	return p.gateway.PublishToTeams(ctx, payload)
}

func (p *GatewayPublisher) Mode() string {
	return "gateway"
}
