package queue

import "context"

// HealthCheck reports the broker and result backend status.
func (q *QueueService) HealthCheck(ctx context.Context) map[string]string {
	return map[string]string{
		"broker":         q.broker.HealthCheck(ctx),
		"result_backend": q.store.HealthCheck(ctx),
	}
}
