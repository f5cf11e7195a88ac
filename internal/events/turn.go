package events

import (
	"context"

	"helios-cli/internal/backend"
)

// TurnHandler 把提交文本交给 Replier，并以 EventTurnReply 发出结果。
// Replier 不返回错误；失败已被降级为可渲染文本。
func TurnHandler(r backend.Replier) Handler {
	return HandlerFunc(func(ctx context.Context, sub Submission, emit EventPublisher) error {
		reply := r.Invoke(ctx, sub.Text)
		return emit.Publish(context.WithoutCancel(ctx), Event{
			Type:         EventTurnReply,
			SubmissionID: sub.ID,
			Timestamp:    sub.Timestamp.Add(reply.Elapsed),
			Payload: TurnReply{
				Text:    reply.Text,
				Kind:    reply.Kind.String(),
				Elapsed: reply.Elapsed,
			},
			Metadata: sub.Metadata,
		})
	})
}
