package consumer

import (
	"context"
	"encoding/json"

	"go-leave-ledger/internal/balance"
	"go-leave-ledger/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveDecisions drops cached balances for every employee/year a
// decision touched, so the next balance read recomputes from the ledger.
func ConsumeLeaveDecisions(
	ctx context.Context,
	reader *kafkago.Reader,
	cache *balance.Cache,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decision")
	log.Info("leave decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decision consumer stopped")
				return
			}
			log.Error("fetch leave decision message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		cache.Invalidate(ctx, event.EmployeeID, event.Years...)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decision message failed", zap.Error(err))
			continue
		}

		log.Info("balance cache invalidated from leave decision",
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("event_type", event.EventType),
			zap.Ints("years", event.Years),
		)
	}
}
