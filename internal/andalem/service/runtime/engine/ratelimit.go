package engine

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter allowing rpm requests per minute, or nil when
// rpm is nil or not positive.
func NewLimiter(rpm *int) *rate.Limiter {
	if rpm == nil || *rpm <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(*rpm)), 1)
}

// RateLimit wraps m so every request waits on all limiters first. Nil
// limiters are ignored; m is returned unchanged when none remain.
func RateLimit(m model.BaseChatModel, limiters ...*rate.Limiter) model.BaseChatModel {
	var active []*rate.Limiter
	for _, l := range limiters {
		if l != nil {
			active = append(active, l)
		}
	}
	if len(active) == 0 {
		return m
	}
	base := &rateLimitedModel{inner: m, limiters: active}
	if tcm, ok := m.(model.ToolCallingChatModel); ok {
		return &rateLimitedToolModel{rateLimitedModel: base, tcm: tcm}
	}
	return base
}

type rateLimitedModel struct {
	inner    model.BaseChatModel
	limiters []*rate.Limiter
}

func (r *rateLimitedModel) wait(ctx context.Context) error {
	for _, l := range r.limiters {
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *rateLimitedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Generate(ctx, input, opts...)
}

func (r *rateLimitedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Stream(ctx, input, opts...)
}

type rateLimitedToolModel struct {
	*rateLimitedModel
	tcm model.ToolCallingChatModel
}

var _ model.ToolCallingChatModel = (*rateLimitedToolModel)(nil)

func (r *rateLimitedToolModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	bound, err := r.tcm.WithTools(tools)
	if err != nil {
		return nil, err
	}
	return &rateLimitedToolModel{
		rateLimitedModel: &rateLimitedModel{inner: bound, limiters: r.limiters},
		tcm:              bound,
	}, nil
}
