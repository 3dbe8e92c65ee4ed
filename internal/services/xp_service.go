package services

import (
	"context"
	"fmt"

	"github.com/brightpath-edu/assessment-engine/internal/events"
	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

// XPService grants experience points for finished attempts and reports a
// learner's level standing.
type XPService interface {
	AwardForAttempt(ctx context.Context, result *models.AttemptResult) (*models.XPAward, error)
	Profile(ctx context.Context, studentID uint) (*XPProfileView, error)
}

// XPProfileView is the learner-facing level standing derived from lifetime XP.
type XPProfileView struct {
	StudentID       uint    `json:"student_id"`
	TotalXP         int     `json:"total_xp"`
	Level           int     `json:"level"`
	ProgressInLevel float64 `json:"progress_in_level"`
	NextLevelXP     int     `json:"next_level_xp"`
}

type xpService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewXPService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger) XPService {
	return &xpService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// AwardForAttempt grants the completion XP for one finalized attempt and
// publishes a level-up event when the grant crosses a threshold.
func (s *xpService) AwardForAttempt(ctx context.Context, result *models.AttemptResult) (*models.XPAward, error) {
	amount := XPForResult(result)

	profile, err := s.repo.XP().Add(ctx, result.StudentID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to add XP: %w", err)
	}

	before := LevelForXP(profile.TotalXP - amount)
	after := LevelForXP(profile.TotalXP)
	award := &models.XPAward{
		StudentID:       result.StudentID,
		Amount:          amount,
		TotalXP:         profile.TotalXP,
		Level:           after,
		ProgressInLevel: ProgressInLevel(profile.TotalXP),
		LeveledUp:       after > before,
	}

	s.logger.Info("XP awarded",
		"student_id", result.StudentID,
		"amount", amount,
		"total_xp", profile.TotalXP,
		"level", after)

	if award.LeveledUp {
		if err := s.publisher.PublishEngineEvent(ctx, events.NewLevelUpEvent(result.StudentID, profile.TotalXP, after)); err != nil {
			s.logger.Error("Failed to publish level-up event",
				"student_id", result.StudentID,
				"error", err)
		}
	}

	return award, nil
}

// Profile reports the current standing; a student with no profile yet is at
// level 1 with zero XP, not an error.
func (s *xpService) Profile(ctx context.Context, studentID uint) (*XPProfileView, error) {
	totalXP := 0
	profile, err := s.repo.XP().Get(ctx, studentID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get XP profile: %w", err)
		}
	} else {
		totalXP = profile.TotalXP
	}

	level := LevelForXP(totalXP)
	return &XPProfileView{
		StudentID:       studentID,
		TotalXP:         totalXP,
		Level:           level,
		ProgressInLevel: ProgressInLevel(totalXP),
		NextLevelXP:     XPRequired(level + 1),
	}, nil
}
