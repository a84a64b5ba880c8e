package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/data/repos"
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/domain/progress"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

const MsgFeedbackAlreadySubmitted = "You have already submitted feedback for this chapter"

type FeedbackContent struct {
	Rating  *int   `json:"rating"`
	Text    string `json:"feedback_text"`
	Keyword string `json:"feedback_keyword"`
}

type FeedbackView struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	ChapterID    uuid.UUID `json:"chapter_id"`
	ChapterTitle string    `json:"chapter_title"`
	Rating       int       `json:"rating"`
	Text         string    `json:"feedback_text"`
	Keyword      string    `json:"feedback_keyword"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FeedbackService manages chapter ratings. Each user rates a chapter at most
// once; later changes go through Update.
type FeedbackService interface {
	Submit(dbc dbctx.Context, chapterID uuid.UUID, in FeedbackContent) (*FeedbackView, error)
	// Get returns the caller's own feedback, or any feedback for admins.
	Get(dbc dbctx.Context, feedbackID uuid.UUID) (*FeedbackView, error)
	ListByChapter(dbc dbctx.Context, chapterID uuid.UUID) ([]FeedbackView, error)
	Update(dbc dbctx.Context, feedbackID uuid.UUID, in FeedbackContent) (*FeedbackView, error)
	Delete(dbc dbctx.Context, feedbackID uuid.UUID) error
}

type feedbackService struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	chapters repos.ChapterRepo
	feedback repos.FeedbackRepo
}

func NewFeedbackService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	chapterRepo repos.ChapterRepo,
	feedbackRepo repos.FeedbackRepo,
) FeedbackService {
	return &feedbackService{
		db:       db,
		log:      baseLog.With("service", "FeedbackService"),
		users:    userRepo,
		chapters: chapterRepo,
		feedback: feedbackRepo,
	}
}

func normalizeFeedback(op string, in FeedbackContent) (FeedbackContent, error) {
	if in.Rating == nil {
		return in, domainagg.Validation(op, "rating is required")
	}
	if *in.Rating < progress.FeedbackRatingMin || *in.Rating > progress.FeedbackRatingMax {
		return in, domainagg.Validation(op, fmt.Sprintf("rating must be between %d and %d", progress.FeedbackRatingMin, progress.FeedbackRatingMax))
	}
	in.Text = strings.TrimSpace(in.Text)
	in.Keyword = strings.TrimSpace(in.Keyword)
	if utf8.RuneCountInString(in.Keyword) > progress.FeedbackKeywordMaxLen {
		return in, domainagg.Validation(op, fmt.Sprintf("feedback keyword exceeds %d characters", progress.FeedbackKeywordMaxLen))
	}
	return in, nil
}

func (s *feedbackService) view(dbc dbctx.Context, op string, row *types.Feedback) (*FeedbackView, error) {
	v := &FeedbackView{
		ID:        row.ID,
		UserID:    row.UserID,
		ChapterID: row.ChapterID,
		Rating:    row.Rating,
		Text:      row.Text,
		Keyword:   row.Keyword,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	u, err := s.users.GetByID(dbc, row.UserID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if u != nil {
		v.Username = u.Username
	}
	ch, err := s.chapters.GetByID(dbc, row.ChapterID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if ch != nil {
		v.ChapterTitle = ch.Title
	}
	return v, nil
}

func (s *feedbackService) Submit(dbc dbctx.Context, chapterID uuid.UUID, in FeedbackContent) (*FeedbackView, error) {
	rd, err := requestIdentity(dbc, "feedback.submit")
	if err != nil {
		return nil, err
	}
	in, err = normalizeFeedback("feedback.submit", in)
	if err != nil {
		return nil, err
	}
	ch, err := s.chapters.GetByID(dbc, chapterID)
	if err != nil {
		return nil, dataagg.MapError("feedback.submit", err)
	}
	if ch == nil {
		return nil, domainagg.NotFound("feedback.submit", "chapter not found")
	}

	row := &types.Feedback{
		UserID:    rd.UserID,
		ChapterID: chapterID,
		Rating:    *in.Rating,
		Text:      in.Text,
		Keyword:   in.Keyword,
	}
	created, err := s.feedback.InsertIfAbsent(dbc, row)
	if err != nil {
		return nil, dataagg.MapError("feedback.submit", err)
	}
	if !created {
		return nil, domainagg.IllegalState("feedback.submit", MsgFeedbackAlreadySubmitted)
	}
	stored, err := s.feedback.GetByID(dbc, row.ID)
	if err != nil {
		return nil, dataagg.MapError("feedback.submit", err)
	}
	if stored == nil {
		stored = row
	}
	s.log.Info("feedback submitted", "user_id", rd.UserID, "chapter_id", chapterID, "rating", row.Rating)
	return s.view(dbc, "feedback.submit", stored)
}

// load fetches a feedback row the caller may act on. Owners always may;
// admins only when allowAdmin is set.
func (s *feedbackService) load(dbc dbctx.Context, op string, feedbackID uuid.UUID, allowAdmin bool) (*types.Feedback, error) {
	rd, err := requestIdentity(dbc, op)
	if err != nil {
		return nil, err
	}
	row, err := s.feedback.GetByID(dbc, feedbackID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if row == nil {
		return nil, domainagg.NotFound(op, "feedback not found")
	}
	if row.UserID != rd.UserID && !(allowAdmin && rd.IsAdmin()) {
		return nil, domainagg.Forbidden(op, "feedback belongs to another user")
	}
	return row, nil
}

func (s *feedbackService) Get(dbc dbctx.Context, feedbackID uuid.UUID) (*FeedbackView, error) {
	row, err := s.load(dbc, "feedback.get", feedbackID, true)
	if err != nil {
		return nil, err
	}
	return s.view(dbc, "feedback.get", row)
}

func (s *feedbackService) ListByChapter(dbc dbctx.Context, chapterID uuid.UUID) ([]FeedbackView, error) {
	rd, err := requestIdentity(dbc, "feedback.list")
	if err != nil {
		return nil, err
	}
	if !rd.IsAdmin() {
		return nil, domainagg.Forbidden("feedback.list", "admin role required")
	}
	ch, err := s.chapters.GetByID(dbc, chapterID)
	if err != nil {
		return nil, dataagg.MapError("feedback.list", err)
	}
	if ch == nil {
		return nil, domainagg.NotFound("feedback.list", "chapter not found")
	}
	rows, err := s.feedback.ListByChapter(dbc, chapterID)
	if err != nil {
		return nil, dataagg.MapError("feedback.list", err)
	}

	userIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		userIDs = append(userIDs, r.UserID)
	}
	users, err := s.users.GetByIDs(dbc, userIDs)
	if err != nil {
		return nil, dataagg.MapError("feedback.list", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	out := make([]FeedbackView, 0, len(rows))
	for _, r := range rows {
		out = append(out, FeedbackView{
			ID:           r.ID,
			UserID:       r.UserID,
			Username:     names[r.UserID],
			ChapterID:    r.ChapterID,
			ChapterTitle: ch.Title,
			Rating:       r.Rating,
			Text:         r.Text,
			Keyword:      r.Keyword,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return out, nil
}

func (s *feedbackService) Update(dbc dbctx.Context, feedbackID uuid.UUID, in FeedbackContent) (*FeedbackView, error) {
	row, err := s.load(dbc, "feedback.update", feedbackID, false)
	if err != nil {
		return nil, err
	}
	in, err = normalizeFeedback("feedback.update", in)
	if err != nil {
		return nil, err
	}
	if err := s.feedback.UpdateContent(dbc, row.ID, *in.Rating, in.Text, in.Keyword); err != nil {
		return nil, dataagg.MapError("feedback.update", err)
	}
	updated, err := s.feedback.GetByID(dbc, row.ID)
	if err != nil {
		return nil, dataagg.MapError("feedback.update", err)
	}
	if updated == nil {
		return nil, domainagg.NotFound("feedback.update", "feedback not found")
	}
	return s.view(dbc, "feedback.update", updated)
}

func (s *feedbackService) Delete(dbc dbctx.Context, feedbackID uuid.UUID) error {
	row, err := s.load(dbc, "feedback.delete", feedbackID, true)
	if err != nil {
		return err
	}
	if err := s.feedback.DeleteByIDs(dbc, []uuid.UUID{row.ID}); err != nil {
		return dataagg.MapError("feedback.delete", err)
	}
	s.log.Info("feedback deleted", "feedback_id", row.ID, "chapter_id", row.ChapterID)
	return nil
}
