package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"docuchat/internal/conversation"
	"docuchat/internal/filepolicy"
	"docuchat/internal/model"
	"docuchat/internal/repository"
	"docuchat/internal/storage"
)

const (
	// contextDocuments bounds how many of the newest documents a reply considers.
	contextDocuments = 20
	// excerptScanBytes bounds how much of a text document is scanned for a matching line.
	excerptScanBytes = 64 * 1024
	maxExcerptRunes  = 300
)

// ChatService answers questions about a session's documents and keeps the conversation history.
type ChatService interface {
	// Reply answers query for the session and records both turns in the history.
	Reply(ctx context.Context, sessionID, query string) (*model.ChatMessage, error)
	// Forget drops the session's conversation history.
	Forget(ctx context.Context, sessionID string) error
}

type chatService struct {
	store   storage.Storage
	repo    repository.DocumentRepository
	history conversation.Store
	log     *zap.Logger
	now     func() time.Time
}

// NewChatService constructs a ChatService.
func NewChatService(store storage.Storage, repo repository.DocumentRepository, history conversation.Store, log *zap.Logger) ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	return &chatService{store: store, repo: repo, history: history, log: log, now: time.Now}
}

func (s *chatService) Reply(ctx context.Context, sessionID, query string) (*model.ChatMessage, error) {
	ctx, span := tracer.Start(ctx, "ChatService.Reply")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	if !ValidSessionID(sessionID) {
		return nil, ErrInvalidSession
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	page, err := s.repo.ListBySession(ctx, sessionID, repository.PageQuery{Limit: contextDocuments})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load session documents: %w", err)
	}

	// History is advisory; a Redis outage degrades to a reply without prior turns.
	prior, err := s.history.History(ctx, sessionID)
	if err != nil {
		s.log.Warn("conversation history unavailable", zap.String("session_id", sessionID), zap.Error(err))
	}

	ex := s.findExcerpt(ctx, page.Items, query)
	text := composeReply(query, page.Items, page.Total, ex, len(prior)/2)

	now := s.now().UTC()
	userTurn := model.ChatMessage{ID: uuid.NewString(), Content: query, Role: model.RoleUser, Timestamp: now}
	reply := model.ChatMessage{ID: uuid.NewString(), Content: text, Role: model.RoleAssistant, Timestamp: now}

	if err := s.history.Append(ctx, sessionID, userTurn, reply); err != nil {
		s.log.Warn("conversation history not saved", zap.String("session_id", sessionID), zap.Error(err))
	}
	span.SetAttributes(attribute.Int("session.documents", page.Total), attribute.Bool("reply.excerpt", ex != nil))
	return &reply, nil
}

func (s *chatService) Forget(ctx context.Context, sessionID string) error {
	if !ValidSessionID(sessionID) {
		return ErrInvalidSession
	}
	return s.history.Clear(ctx, sessionID)
}

type excerpt struct {
	source string
	line   string
}

// findExcerpt returns the first line of a plain-text document that mentions a query term.
// PDF and DOCX bodies are stored but not searched.
func (s *chatService) findExcerpt(ctx context.Context, docs []model.Document, query string) *excerpt {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil
	}
	for _, doc := range docs {
		if filepolicy.MediaType(doc.ContentType) != filepolicy.ContentTypeText {
			continue
		}
		rc, _, err := s.store.Get(ctx, doc.StoragePath)
		if err != nil {
			s.log.Warn("document unreadable", zap.String("document_id", doc.ID), zap.Error(err))
			continue
		}
		line := matchLine(io.LimitReader(rc, excerptScanBytes), terms)
		rc.Close()
		if line != "" {
			return &excerpt{source: doc.OriginalName, line: line}
		}
	}
	return nil
}

func queryTerms(query string) []string {
	var terms []string
	for _, f := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	}) {
		if len([]rune(f)) >= 3 {
			terms = append(terms, f)
		}
	}
	return terms
}

func matchLine(r io.Reader, terms []string) string {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), excerptScanBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, t := range terms {
			if strings.Contains(lower, t) {
				return truncateRunes(line, maxExcerptRunes)
			}
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func composeReply(query string, docs []model.Document, total int, ex *excerpt, priorTurns int) string {
	if total == 0 {
		return "I don't have any documents for this session yet. Upload a PDF, DOCX, or TXT file and ask again."
	}

	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.OriginalName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your %d document(s) (%s)", total, strings.Join(names, ", "))
	if total > len(docs) {
		fmt.Fprintf(&b, " and %d more", total-len(docs))
	}
	b.WriteString(":\n\n")
	if ex != nil {
		fmt.Fprintf(&b, "From %s: %s", ex.source, ex.line)
	} else {
		b.WriteString("I could not find a passage that matches your question in the text I can read.")
	}
	fmt.Fprintf(&b, "\n\nYou asked: %s", query)
	if priorTurns > 0 {
		fmt.Fprintf(&b, "\n\n(%d earlier question(s) in this conversation.)", priorTurns)
	}
	return b.String()
}
