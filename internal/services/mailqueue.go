package services

import (
	"context"

	"github.com/POS-Ninjas/backend/internal/logger"

	"go.uber.org/zap"
)

type MailJob struct {
	To        string
	FirstName string
	ResetLink string
}

// QueuedMailer развязывает выдачу токена и доставку письма: постановка в
// очередь не блокируется и не возвращает ошибок доставки. Сбои отправки
// логирует воркер.
type QueuedMailer struct {
	queue chan MailJob
}

func NewQueuedMailer(buffer int) *QueuedMailer {
	if buffer < 1 {
		buffer = 100
	}
	return &QueuedMailer{queue: make(chan MailJob, buffer)}
}

func (q *QueuedMailer) SendPasswordReset(ctx context.Context, toEmail, firstName, resetLink string) error {
	job := MailJob{To: toEmail, FirstName: firstName, ResetLink: resetLink}
	select {
	case q.queue <- job:
	default:
		// Очередь забита — письмо теряем, заявка при этом остаётся валидной.
		logger.WithCtx(ctx).Error("Очередь писем переполнена, письмо отброшено", zap.String("to", toEmail))
	}
	return nil
}

// StartWorkers запускает воркеры доставки поверх реального отправителя.
func (q *QueuedMailer) StartWorkers(sender EmailSender, n int) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		go func() {
			for job := range q.queue {
				if err := sender.SendPasswordReset(context.Background(), job.To, job.FirstName, job.ResetLink); err != nil {
					logger.Log.Error("Не удалось отправить письмо", zap.Error(err), zap.String("to", job.To))
				}
			}
		}()
	}
}
