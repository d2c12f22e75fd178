package services

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/quanghuy/intelliquiz-backend/models"
)

// Extra time past the quiz duration before the sweeper force-submits an
// abandoned session.
const sweeperGrace = 5 * time.Minute

// SweepExpiredSessions auto-submits IN_PROGRESS sessions whose quiz duration
// ran out, scoring whatever answers were recorded. Keeps abandoned attempts
// from staying open forever while the client countdown stays advisory.
func SweepExpiredSessions(db *gorm.DB) {
	var sessions []models.QuizSession
	err := db.Preload("Quiz").
		Where("status = ?", models.SessionInProgress).
		Find(&sessions).Error
	if err != nil {
		log.Printf("session sweep query failed: %v", err)
		return
	}

	swept := 0
	for i := range sessions {
		s := &sessions[i]
		if !sessionExpired(s, sweeperGrace) {
			continue
		}
		if _, _, err := SubmitSession(db, s.ID, s.StudentID); err != nil {
			// AlreadyAttempted means a racing manual submit won, fine.
			if !errors.Is(err, ErrAlreadyAttempted) && !errors.Is(err, ErrSessionClosed) {
				log.Printf("auto-submit of session %s failed: %v", s.ID, err)
			}
			continue
		}
		swept++
	}

	if swept > 0 {
		log.Printf("auto-submitted %d expired quiz sessions", swept)
	}
}

// StartSessionSweeper runs the sweep periodically.
func StartSessionSweeper(db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = 1 * time.Minute
	}

	SweepExpiredSessions(db)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			SweepExpiredSessions(db)
		}
	}()

	log.Printf("session sweeper started (every %s)", interval)
}
