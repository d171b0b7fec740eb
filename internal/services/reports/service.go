package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

const KindMalware = "malware"

type Repo interface {
	Create(ctx context.Context, report model.Report) error
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// OpenMalware records an administrative report for a malware finding so a
// human reviews it instead of the engine escalating to a ban.
func (s *Service) OpenMalware(ctx context.Context, targetTGID, chatID int64, messageID int, details string, openedBy model.Actor) (string, error) {
	if s.repo == nil {
		return "", fmt.Errorf("reports repo is not configured")
	}
	if targetTGID <= 0 {
		return "", fmt.Errorf("invalid report target")
	}

	report := model.Report{
		ID:         uuid.NewString(),
		Kind:       KindMalware,
		TargetTGID: targetTGID,
		ChatID:     chatID,
		MessageID:  messageID,
		Details:    details,
		OpenedBy:   openedBy.Detail(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return "", err
	}
	return report.ID, nil
}
