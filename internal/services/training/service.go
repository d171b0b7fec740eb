package training

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

type Queue interface {
	Push(ctx context.Context, sample model.TrainingSample) error
}

type EvidenceStore interface {
	PutEvidence(ctx context.Context, key string, payload []byte) error
}

// Service captures confirmed-spam messages for classifier training. The
// queue hand-off is the committing step; evidence archival is optional and
// its absence only leaves the sample without an object-storage copy.
type Service struct {
	queue    Queue
	evidence EvidenceStore
}

func NewService(queue Queue, evidence EvidenceStore) *Service {
	return &Service{queue: queue, evidence: evidence}
}

func (s *Service) CaptureSpam(ctx context.Context, msg model.TrackedMessage) error {
	if s.queue == nil {
		return fmt.Errorf("training queue is not configured")
	}
	if msg.UserTGID <= 0 {
		return fmt.Errorf("invalid training sample user")
	}

	sample := model.TrainingSample{
		ID:         uuid.NewString(),
		UserTGID:   msg.UserTGID,
		ChatID:     msg.ChatID,
		MessageID:  msg.MessageID,
		Text:       msg.Text,
		CapturedAt: time.Now().UTC(),
	}

	if s.evidence != nil {
		key := fmt.Sprintf("spam/%d/%s.json", msg.UserTGID, sample.ID)
		payload, err := json.Marshal(msg)
		if err == nil {
			if err := s.evidence.PutEvidence(ctx, key, payload); err == nil {
				sample.EvidenceKey = key
			}
		}
	}

	return s.queue.Push(ctx, sample)
}
