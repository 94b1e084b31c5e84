package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/livequiz/internal/domain"
	"github.com/gokatarajesh/livequiz/internal/metrics"
	"github.com/gokatarajesh/livequiz/internal/session/scoring"
)

// ErrLockUnavailable wraps failures to take the per-quiz lock.
var ErrLockUnavailable = errors.New("quiz lock unavailable")

// Service orchestrates session transitions, answer submission and leaderboards.
type Service struct {
	sessions      SessionStore
	questions     QuestionStore
	answers       AnswerLedger
	participants  ParticipantStore
	locker        Locker
	notifier      Notifier
	leaderboard   LeaderboardCache
	scoringEngine *scoring.Engine
	clock         Clock
	logger        zerolog.Logger
}

// ServiceOptions configures the session service.
type ServiceOptions struct {
	ScoringConfig scoring.ScoringConfig
	Clock         Clock
	// Leaderboard is optional; finished leaderboards are cached through it.
	Leaderboard LeaderboardCache
}

// NewService creates a session service with all dependencies.
func NewService(
	stores Stores,
	locker Locker,
	notifier Notifier,
	opts ServiceOptions,
	logger zerolog.Logger,
) *Service {
	scoringCfg := opts.ScoringConfig
	if scoringCfg.BaseScore == 0 {
		scoringCfg = scoring.DefaultScoringConfig()
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	return &Service{
		sessions:      stores.Sessions,
		questions:     stores.Questions,
		answers:       stores.Answers,
		participants:  stores.Participants,
		locker:        locker,
		notifier:      notifier,
		leaderboard:   opts.Leaderboard,
		scoringEngine: scoring.NewEngine(scoringCfg),
		clock:         clock,
		logger:        logger.With().Str("component", "session").Logger(),
	}
}

// CreateQuiz validates the questions, stores them and opens a waiting session.
func (s *Service) CreateQuiz(ctx context.Context, req CreateQuizRequest) (*domain.QuizSession, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "title is required"}
	}

	questions := make([]domain.Question, len(req.Questions))
	ids := make([]uuid.UUID, len(req.Questions))
	for i, q := range req.Questions {
		if err := q.Validate(); err != nil {
			var v *domain.ValidationError
			if errors.As(err, &v) {
				return nil, &domain.ValidationError{
					Field:   "questions[" + strconv.Itoa(i) + "]." + v.Field,
					Message: v.Message,
				}
			}
			return nil, err
		}
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.Options = append([]string(nil), q.Options...)
		questions[i] = q
		ids[i] = q.ID
	}

	if len(questions) > 0 {
		if err := s.questions.SaveQuestions(ctx, questions); err != nil {
			return nil, fmt.Errorf("save questions: %w", err)
		}
	}

	now := s.clock.Now()
	sess := &domain.QuizSession{
		ID:           uuid.New(),
		Title:        title,
		Phase:        domain.PhaseWaiting,
		QuestionIDs:  ids,
		Participants: []uuid.UUID{},
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().
		Str("quiz_id", sess.ID.String()).
		Int("question_count", len(ids)).
		Msg("quiz created")

	return sess, nil
}

// JoinQuiz registers a participant; joining twice only refreshes the display name.
func (s *Service) JoinQuiz(ctx context.Context, quizID, participantID uuid.UUID, displayName string) (domain.Participant, error) {
	displayName = strings.TrimSpace(displayName)
	if participantID == uuid.Nil {
		return domain.Participant{}, &domain.ValidationError{Field: "participant_id", Message: "participant_id is required"}
	}
	if displayName == "" {
		return domain.Participant{}, &domain.ValidationError{Field: "display_name", Message: "display_name is required"}
	}

	var (
		joined  bool
		updated *domain.QuizSession
	)
	err := s.withLock(ctx, quizID, func() error {
		current, err := s.sessions.Get(ctx, quizID)
		if err != nil {
			return err
		}
		if current.Phase == domain.PhaseFinished {
			return &domain.TransitionError{Op: "join", Phase: current.Phase}
		}

		// The participant record exists before the session lists it.
		if err := s.participants.Upsert(ctx, domain.Participant{
			ID:          participantID,
			QuizID:      quizID,
			DisplayName: displayName,
			JoinedAt:    s.clock.Now(),
		}); err != nil {
			return fmt.Errorf("upsert participant: %w", err)
		}

		if current.HasParticipant(participantID) {
			updated = current
			return nil
		}

		next := current.Clone()
		next.Participants = append(next.Participants, participantID)
		if err := s.commit(ctx, current, next); err != nil {
			return err
		}
		updated = next
		joined = true
		return nil
	})
	if err != nil {
		return domain.Participant{}, err
	}

	participant, err := s.participants.Get(ctx, quizID, participantID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("load participant: %w", err)
	}

	if joined {
		s.logger.Info().
			Str("quiz_id", quizID.String()).
			Str("participant_id", participantID.String()).
			Int("participant_count", len(updated.Participants)).
			Msg("participant joined")

		s.notify(ctx, AdminChannel(quizID), EventParticipantJoined, ParticipantJoined{
			QuizID:           quizID,
			ParticipantID:    participantID,
			DisplayName:      displayName,
			ParticipantCount: len(updated.Participants),
		})
	}
	return participant, nil
}

// StartQuiz moves a waiting session onto its first question.
func (s *Service) StartQuiz(ctx context.Context, quizID uuid.UUID) (*domain.QuizSession, error) {
	return s.transition(ctx, quizID, func(sess *domain.QuizSession, now time.Time) (string, error) {
		if err := start(sess, now); err != nil {
			return "", err
		}
		return EventStarted, nil
	})
}

// AdvanceQuestion moves past the question at fromIndex. When another caller already
// advanced past fromIndex the call is a no-op returning the current session.
// AnyIndex advances from whatever question is current.
func (s *Service) AdvanceQuestion(ctx context.Context, quizID uuid.UUID, fromIndex int) (*domain.QuizSession, error) {
	return s.transition(ctx, quizID, func(sess *domain.QuizSession, now time.Time) (string, error) {
		if sess.Phase == domain.PhaseActive && fromIndex != AnyIndex && sess.CurrentQuestionIndex != fromIndex {
			return "", nil
		}
		return advance(sess, now)
	})
}

// ResetQuiz returns the session to waiting and clears the previous run's answers and scores.
func (s *Service) ResetQuiz(ctx context.Context, quizID uuid.UUID) (*domain.QuizSession, error) {
	var updated *domain.QuizSession
	err := s.withLock(ctx, quizID, func() error {
		current, err := s.sessions.Get(ctx, quizID)
		if err != nil {
			return err
		}
		if err := s.answers.DeleteByQuiz(ctx, quizID); err != nil {
			return fmt.Errorf("clear answers: %w", err)
		}
		if err := s.participants.ResetScores(ctx, quizID); err != nil {
			return fmt.Errorf("reset scores: %w", err)
		}

		next := current.Clone()
		reset(next)
		if err := s.commit(ctx, current, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.leaderboard != nil {
		if err := s.leaderboard.Invalidate(ctx, quizID); err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("leaderboard cache invalidation failed")
		}
	}
	s.afterTransition(ctx, updated, EventReset)
	return updated, nil
}

// SubmitAnswer records an answer to the active question and returns immediate feedback.
func (s *Service) SubmitAnswer(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := validateSubmit(req); err != nil {
		metrics.RejectedAnswers.WithLabelValues("validation").Inc()
		return nil, err
	}

	var (
		result    *SubmitResult
		event     string
		advanced  *domain.QuizSession
		answered  int
		attendees int
	)
	err := s.withLock(ctx, req.QuizID, func() error {
		current, err := s.sessions.Get(ctx, req.QuizID)
		if err != nil {
			return err
		}
		if !current.HasParticipant(req.ParticipantID) {
			return domain.ErrParticipantNotFound
		}
		if !containsID(current.QuestionIDs, req.QuestionID) {
			return domain.ErrQuestionNotFound
		}

		activeID, ok := current.CurrentQuestionID()
		if !ok || activeID != req.QuestionID {
			return fmt.Errorf("question %s is not active: %w", req.QuestionID, domain.ErrStaleSubmission)
		}

		question, err := s.question(ctx, req.QuestionID)
		if err != nil {
			return err
		}
		if req.SelectedOption >= len(question.Options) {
			return &domain.ValidationError{Field: "selected_option", Message: "selected_option is out of range"}
		}

		now := s.clock.Now()
		if remaining, _ := Remaining(current, question, now); remaining <= 0 {
			// The window closed; whoever observes it first moves the quiz on.
			next := current.Clone()
			ev, err := advance(next, now)
			if err != nil {
				return err
			}
			if err := s.commit(ctx, current, next); err != nil {
				return err
			}
			event, advanced = ev, next
			return fmt.Errorf("time is up for question %s: %w", req.QuestionID, domain.ErrStaleSubmission)
		}

		isCorrect, points := s.scoringEngine.Score(question, req.SelectedOption, req.ResponseTimeMs)
		answer := domain.Answer{
			ID:             AnswerID(req.QuizID, req.QuestionID, req.ParticipantID),
			ParticipantID:  req.ParticipantID,
			QuizID:         req.QuizID,
			QuestionID:     req.QuestionID,
			SelectedOption: req.SelectedOption,
			IsCorrect:      isCorrect,
			Points:         points,
			CreditedPoints: points,
			ResponseTimeMs: req.ResponseTimeMs,
			CreatedAt:      now,
		}
		prior, err := s.answers.Get(ctx, req.QuizID, req.QuestionID, req.ParticipantID)
		if err != nil {
			return fmt.Errorf("load answer: %w", err)
		}
		if prior != nil {
			answer.CreditedPoints = max(points, prior.CreditedPoints)
		}

		previous, err := s.answers.Swap(ctx, answer)
		if err != nil {
			return fmt.Errorf("record answer: %w", err)
		}

		// Credit only the improvement over what this question already credited.
		delta := answer.CreditedPoints
		if previous != nil {
			delta -= previous.CreditedPoints
		}
		if delta > 0 {
			if _, err := s.participants.IncrementScore(ctx, req.QuizID, req.ParticipantID, delta); err != nil {
				// Put the ledger back so a retry is credited against what was actually counted.
				s.rollbackAnswer(ctx, answer, previous)
				return fmt.Errorf("increment score: %w", err)
			}
		}

		result = &SubmitResult{
			IsCorrect:     isCorrect,
			CorrectOption: question.CorrectOption,
			Points:        points,
		}
		metrics.Answers.WithLabelValues(strconv.FormatBool(isCorrect)).Inc()
		metrics.ResponseTime.Observe(float64(req.ResponseTimeMs))

		s.logger.Info().
			Str("quiz_id", req.QuizID.String()).
			Str("participant_id", req.ParticipantID.String()).
			Str("question_id", req.QuestionID.String()).
			Bool("correct", isCorrect).
			Int("points", points).
			Bool("resubmission", previous != nil).
			Msg("answer submitted")

		answered, err = s.answers.CountForQuestion(ctx, req.QuizID, req.QuestionID)
		if err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", req.QuizID.String()).Msg("completion check skipped")
			answered = -1
			return nil
		}
		attendees = len(current.Participants)

		if ShouldAdvanceEarly(attendees, answered) {
			next := current.Clone()
			ev, err := advance(next, now)
			if err != nil {
				return err
			}
			if err := s.commit(ctx, current, next); err != nil {
				s.logger.Warn().Err(err).Str("quiz_id", req.QuizID.String()).Msg("early advance failed")
				return nil
			}
			event, advanced = ev, next
		}
		return nil
	})

	if event != "" {
		s.afterTransition(ctx, advanced, event)
	}
	if err != nil {
		if errors.Is(err, domain.ErrStaleSubmission) {
			metrics.RejectedAnswers.WithLabelValues("stale").Inc()
		}
		return nil, err
	}

	if answered >= 0 {
		s.notify(ctx, AdminChannel(req.QuizID), EventAnswerProgress, Completion{
			QuizID:           req.QuizID,
			QuestionID:       req.QuestionID,
			AnsweredCount:    answered,
			ParticipantCount: attendees,
			AllAnswered:      attendees > 0 && answered >= attendees,
		})
	}
	return result, nil
}

func (s *Service) rollbackAnswer(ctx context.Context, answer domain.Answer, previous *domain.Answer) {
	var err error
	if previous != nil {
		_, err = s.answers.Swap(ctx, *previous)
	} else {
		err = s.answers.Remove(ctx, answer.QuizID, answer.QuestionID, answer.ParticipantID)
	}
	if err != nil {
		s.logger.Error().Err(err).
			Str("quiz_id", answer.QuizID.String()).
			Str("participant_id", answer.ParticipantID.String()).
			Msg("answer rollback failed")
	}
}

// GetRemainingTime recomputes the countdown. A poll that observes an expired
// question advances the quiz; concurrent observers produce a single advance.
func (s *Service) GetRemainingTime(ctx context.Context, quizID uuid.UUID) (RemainingTime, error) {
	sess, err := s.sessions.Get(ctx, quizID)
	if err != nil {
		return RemainingTime{}, err
	}

	view, question, err := s.remaining(ctx, sess)
	if err != nil || !view.Active || view.RemainingSeconds > 0 {
		return view, err
	}

	sess, err = s.advanceIfExpired(ctx, quizID, sess.CurrentQuestionIndex)
	if err != nil {
		return RemainingTime{}, err
	}
	if id, ok := sess.CurrentQuestionID(); ok && id == question.ID {
		return view, nil
	}
	view, _, err = s.remaining(ctx, sess)
	return view, err
}

// GetAnswerCompletion reports how many participants answered a question.
func (s *Service) GetAnswerCompletion(ctx context.Context, quizID, questionID uuid.UUID) (Completion, error) {
	sess, err := s.sessions.Get(ctx, quizID)
	if err != nil {
		return Completion{}, err
	}
	if !containsID(sess.QuestionIDs, questionID) {
		return Completion{}, domain.ErrQuestionNotFound
	}

	answered, err := s.answers.CountForQuestion(ctx, quizID, questionID)
	if err != nil {
		return Completion{}, fmt.Errorf("count answers: %w", err)
	}

	participants := len(sess.Participants)
	return Completion{
		QuizID:           quizID,
		QuestionID:       questionID,
		AnsweredCount:    answered,
		ParticipantCount: participants,
		AllAnswered:      participants > 0 && answered >= participants,
	}, nil
}

// GetLeaderboard aggregates the ledger into ranked entries. Finished quizzes are
// served from the leaderboard cache when one is configured.
func (s *Service) GetLeaderboard(ctx context.Context, quizID uuid.UUID) ([]domain.LeaderboardEntry, error) {
	sess, err := s.sessions.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if sess.Phase == domain.PhaseFinished && sess.EndedAt != nil && s.leaderboard != nil {
		entries, ok, err := s.leaderboard.Load(ctx, quizID, *sess.EndedAt)
		if err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("leaderboard cache read failed")
		} else if ok {
			return entries, nil
		}
	}
	return s.aggregate(ctx, sess)
}

// GetSession returns the client view of a session.
func (s *Service) GetSession(ctx context.Context, quizID uuid.UUID) (Snapshot, error) {
	sess, err := s.sessions.Get(ctx, quizID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(ctx, sess)
}

func (s *Service) aggregate(ctx context.Context, sess *domain.QuizSession) ([]domain.LeaderboardEntry, error) {
	stored, err := s.participants.List(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	byID := make(map[uuid.UUID]domain.Participant, len(stored))
	for _, p := range stored {
		byID[p.ID] = p
	}
	participants := make([]domain.Participant, 0, len(sess.Participants))
	for _, id := range sess.Participants {
		p, ok := byID[id]
		if !ok {
			p = domain.Participant{ID: id, QuizID: sess.ID}
		}
		participants = append(participants, p)
	}

	answers, err := s.answers.ListByQuiz(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	var questions []domain.Question
	if len(sess.QuestionIDs) > 0 {
		questions, err = s.questions.GetQuestions(ctx, sess.QuestionIDs)
		if err != nil {
			return nil, fmt.Errorf("load questions: %w", err)
		}
	}

	return s.scoringEngine.Aggregate(participants, answers, questions), nil
}

func (s *Service) advanceIfExpired(ctx context.Context, quizID uuid.UUID, observedIndex int) (*domain.QuizSession, error) {
	var (
		event   string
		updated *domain.QuizSession
	)
	err := s.withLock(ctx, quizID, func() error {
		current, err := s.sessions.Get(ctx, quizID)
		if err != nil {
			return err
		}
		updated = current
		if current.Phase != domain.PhaseActive || current.CurrentQuestionIndex != observedIndex {
			return nil
		}

		question, err := s.question(ctx, current.QuestionIDs[current.CurrentQuestionIndex])
		if err != nil {
			return err
		}
		now := s.clock.Now()
		if remaining, _ := Remaining(current, question, now); remaining > 0 {
			return nil
		}

		next := current.Clone()
		event, err = advance(next, now)
		if err != nil {
			return err
		}
		if err := s.commit(ctx, current, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != "" {
		s.afterTransition(ctx, updated, event)
	}
	return updated, nil
}

// transition applies fn under the quiz lock and broadcasts the result.
func (s *Service) transition(
	ctx context.Context,
	quizID uuid.UUID,
	fn func(sess *domain.QuizSession, now time.Time) (string, error),
) (*domain.QuizSession, error) {
	var (
		event   string
		updated *domain.QuizSession
	)
	err := s.withLock(ctx, quizID, func() error {
		current, err := s.sessions.Get(ctx, quizID)
		if err != nil {
			return err
		}

		next := current.Clone()
		event, err = fn(next, s.clock.Now())
		if err != nil {
			return err
		}
		if event == "" {
			updated = current
			return nil
		}
		if err := s.commit(ctx, current, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != "" {
		s.afterTransition(ctx, updated, event)
	}
	return updated, nil
}

func (s *Service) withLock(ctx context.Context, quizID uuid.UUID, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, quizID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLockUnavailable, err)
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("release lock failed")
		}
	}()
	return fn()
}

// commit stores next over current with a version check.
func (s *Service) commit(ctx context.Context, current, next *domain.QuizSession) error {
	next.Version = current.Version + 1
	next.UpdatedAt = s.clock.Now()
	if err := s.sessions.CompareAndSwap(ctx, next, current.Version); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// afterTransition runs the advisory side effects of a committed transition.
func (s *Service) afterTransition(ctx context.Context, sess *domain.QuizSession, event string) {
	metrics.Transitions.WithLabelValues(event).Inc()
	s.logger.Info().
		Str("quiz_id", sess.ID.String()).
		Str("event", event).
		Str("phase", string(sess.Phase)).
		Int("question_index", sess.CurrentQuestionIndex).
		Msg("session transition")

	snap, err := s.snapshot(ctx, sess)
	if err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", sess.ID.String()).Msg("build snapshot failed")
	} else {
		s.notify(ctx, ParticipantChannel(sess.ID), event, snap)
		s.notify(ctx, AdminChannel(sess.ID), event, snap)
	}

	if event == EventFinished {
		s.publishLeaderboard(ctx, sess)
	}
}

func (s *Service) publishLeaderboard(ctx context.Context, sess *domain.QuizSession) {
	entries, err := s.aggregate(ctx, sess)
	if err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", sess.ID.String()).Msg("leaderboard aggregation failed")
		return
	}

	if s.leaderboard != nil && sess.EndedAt != nil {
		if err := s.leaderboard.Store(ctx, sess.ID, entries, *sess.EndedAt); err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", sess.ID.String()).Msg("leaderboard cache failed")
		}
	}

	payload := Leaderboard{QuizID: sess.ID, Entries: entries}
	s.notify(ctx, ParticipantChannel(sess.ID), EventLeaderboard, payload)
	s.notify(ctx, AdminChannel(sess.ID), EventLeaderboard, payload)
}

// notify is best-effort: failures are logged and never reach the caller.
func (s *Service) notify(ctx context.Context, channel, event string, payload any) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			metrics.NotifyFailures.Inc()
			s.logger.Error().Interface("panic", r).Str("channel", channel).Msg("notifier panicked")
		}
	}()
	if err := s.notifier.Broadcast(ctx, channel, event, payload); err != nil {
		metrics.NotifyFailures.Inc()
		s.logger.Warn().Err(err).Str("channel", channel).Str("event", event).Msg("broadcast failed")
	}
}

func (s *Service) snapshot(ctx context.Context, sess *domain.QuizSession) (Snapshot, error) {
	snap := Snapshot{
		QuizID:            sess.ID,
		Title:             sess.Title,
		Phase:             sess.Phase,
		QuestionIndex:     sess.CurrentQuestionIndex,
		TotalQuestions:    len(sess.QuestionIDs),
		QuestionStartedAt: sess.QuestionStartedAt,
		ParticipantCount:  len(sess.Participants),
		Version:           sess.Version,
	}

	id, ok := sess.CurrentQuestionID()
	if !ok {
		return snap, nil
	}
	q, err := s.question(ctx, id)
	if err != nil {
		return snap, err
	}
	snap.Question = viewOf(q)
	snap.RemainingSeconds, _ = Remaining(sess, q, s.clock.Now())
	return snap, nil
}

func (s *Service) remaining(ctx context.Context, sess *domain.QuizSession) (RemainingTime, domain.Question, error) {
	view := RemainingTime{
		QuizID:        sess.ID,
		Phase:         sess.Phase,
		QuestionIndex: sess.CurrentQuestionIndex,
	}

	id, ok := sess.CurrentQuestionID()
	if !ok {
		return view, domain.Question{}, nil
	}
	q, err := s.question(ctx, id)
	if err != nil {
		return RemainingTime{}, domain.Question{}, err
	}

	view.QuestionID = q.ID
	view.RemainingSeconds, view.Active = Remaining(sess, q, s.clock.Now())
	return view, q, nil
}

func (s *Service) question(ctx context.Context, id uuid.UUID) (domain.Question, error) {
	qs, err := s.questions.GetQuestions(ctx, []uuid.UUID{id})
	if err != nil {
		return domain.Question{}, err
	}
	if len(qs) != 1 {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return qs[0], nil
}

func validateSubmit(req SubmitRequest) error {
	switch {
	case req.QuizID == uuid.Nil:
		return &domain.ValidationError{Field: "quiz_id", Message: "quiz_id is required"}
	case req.QuestionID == uuid.Nil:
		return &domain.ValidationError{Field: "question_id", Message: "question_id is required"}
	case req.ParticipantID == uuid.Nil:
		return &domain.ValidationError{Field: "participant_id", Message: "participant_id is required"}
	case req.SelectedOption < domain.NoAnswer:
		return &domain.ValidationError{Field: "selected_option", Message: "selected_option must be -1 or an option index"}
	case req.ResponseTimeMs < 0:
		return &domain.ValidationError{Field: "response_time_ms", Message: "response_time_ms must not be negative"}
	}
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
