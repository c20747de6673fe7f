package domain

import "context"

// RunTrigger 描述一次分析是如何被触发的
type RunTrigger string

const (
	// RunTriggerManual 人工在命令行触发 (默认)
	RunTriggerManual RunTrigger = "MANUAL"

	// RunTriggerScheduled 定时任务触发
	RunTriggerScheduled RunTrigger = "SCHEDULED"

	// RunTriggerRecompute 因子表更新后对已有数据的重算
	RunTriggerRecompute RunTrigger = "RECOMPUTE"
)

// Valid 是否为已知的触发方式
func (t RunTrigger) Valid() bool {
	switch t {
	case RunTriggerManual, RunTriggerScheduled, RunTriggerRecompute:
		return true
	default:
		return false
	}
}

// RunContext 携带分析运行时的上下文信息，最终随运行记录一起持久化
type RunContext struct {
	TraceID  string // 关联外部调度/日志的追踪号
	Trigger  RunTrigger
	Operator string // 操作人 (SYSTEM 或 具体用户)
	BatchID  string // 批次号
}

type runContextKey struct{}

// NewContext returns a new Context that carries the RunContext value.
func NewContext(ctx context.Context, info RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, info)
}

// FromContext returns the RunContext value stored in ctx, if any.
func FromContext(ctx context.Context) (RunContext, bool) {
	info, ok := ctx.Value(runContextKey{}).(RunContext)
	return info, ok
}
