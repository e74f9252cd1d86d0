// Package agent composes the chat and scan pipelines: resolve the
// record, serialize CRM context, assemble the prompt, call the
// generation backend and parse its output into the widget contract.
package agent

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/finance1/summary-agent/backend/internal/apperr"
	"github.com/finance1/summary-agent/backend/internal/crmtext"
	agentmodel "github.com/finance1/summary-agent/backend/internal/model/agent"
	"github.com/finance1/summary-agent/backend/internal/model/crm"
	"github.com/finance1/summary-agent/backend/internal/service/ai"
	"github.com/finance1/summary-agent/backend/internal/service/zoho"
)

// relatedFetchLimit caps how many related records are requested per
// module. Display truncation to fewer records happens in crmtext.
const relatedFetchLimit = 5

// defaultEntityType backs the permissive chat contract for legacy
// widget builds that never send entity_type. Scan stays strict.
const defaultEntityType = "Accounts"

// TokenSource provides a CRM bearer token.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// RecordSource retrieves CRM records.
type RecordSource interface {
	Record(ctx context.Context, module, id, token string) (*crm.Record, error)
	RelatedRecords(ctx context.Context, module, id, related, token string, limit int) ([]*crm.Record, error)
}

// Generator produces model output for an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Stream(ctx context.Context, prompt string) (*schema.StreamReader[*schema.Message], error)
	StreamingEnabled() bool
}

// Service orchestrates chat and scan turns. All state is per-request;
// the service itself is safe for concurrent use.
type Service struct {
	tokens  TokenSource
	records RecordSource
	gen     Generator
	log     *zap.Logger
}

// NewService wires the orchestrator. Collaborators may be nil when
// their credentials are not configured; affected operations then fail
// with a configuration error instead of a panic.
func NewService(tokens TokenSource, records RecordSource, gen Generator, log *zap.Logger) *Service {
	return &Service{
		tokens:  tokens,
		records: records,
		gen:     gen,
		log:     log,
	}
}

// Chat runs one buffered chat turn.
func (s *Service) Chat(ctx context.Context, req agentmodel.ChatRequest) (agentmodel.ChatResponse, error) {
	prompt, err := s.prepareChat(ctx, req)
	if err != nil {
		return agentmodel.ChatResponse{}, err
	}

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return agentmodel.ChatResponse{}, err
	}

	return ai.ParseChat(raw), nil
}

// ChatStream runs one chat turn, emitting text deltas as the backend
// produces them. The final parsed response is returned once the stream
// completes. When streaming is disabled the full text is emitted once.
func (s *Service) ChatStream(ctx context.Context, req agentmodel.ChatRequest, emit func(delta string)) (agentmodel.ChatResponse, error) {
	prompt, err := s.prepareChat(ctx, req)
	if err != nil {
		return agentmodel.ChatResponse{}, err
	}

	if !s.gen.StreamingEnabled() {
		raw, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return agentmodel.ChatResponse{}, err
		}
		emit(raw)
		return ai.ParseChat(raw), nil
	}

	stream, err := s.gen.Stream(ctx, prompt)
	if err != nil {
		return agentmodel.ChatResponse{}, err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return agentmodel.ChatResponse{}, apperr.FromTransport("generation stream failed", recvErr)
		}
		if chunk == nil {
			continue
		}
		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			emit(chunk.Content)
		}
	}

	if len(chunks) == 0 {
		return agentmodel.ChatResponse{}, apperr.Upstream("generation backend returned no text", 0, "")
	}
	full, err := schema.ConcatMessages(chunks)
	if err != nil {
		return agentmodel.ChatResponse{}, apperr.FromTransport("generation stream failed", err)
	}
	if strings.TrimSpace(full.Content) == "" {
		return agentmodel.ChatResponse{}, apperr.Upstream("generation backend returned no text", 0, "")
	}

	return ai.ParseChat(full.Content), nil
}

// Scan analyzes one record without a user query and returns proactive
// recommendations. The list is never empty on success.
func (s *Service) Scan(ctx context.Context, req agentmodel.ScanRequest) (agentmodel.ScanResponse, error) {
	if req.EntityID == "" {
		return agentmodel.ScanResponse{}, apperr.BadRequest("entity_id is required")
	}
	if req.EntityType == "" {
		return agentmodel.ScanResponse{}, apperr.BadRequest("entity_type is required")
	}
	if err := s.requireCollaborators(); err != nil {
		return agentmodel.ScanResponse{}, err
	}

	token, err := s.accessToken(ctx)
	if err != nil {
		return agentmodel.ScanResponse{}, err
	}

	record, err := s.fetchRecord(ctx, req.EntityType, req.EntityID, token)
	if err != nil {
		return agentmodel.ScanResponse{}, err
	}

	prompt := ai.BuildScanPrompt(crmtext.RecordToText(record, req.EntityType))

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return agentmodel.ScanResponse{}, err
	}

	recommendations := ai.ParseScan(raw)
	if len(recommendations) == 0 {
		recommendations = []agentmodel.Recommendation{agentmodel.NoRecommendations()}
	}

	return agentmodel.ScanResponse{Recommendations: recommendations}, nil
}

// prepareChat validates the turn and assembles the prompt: primary
// record first, then one section per related module.
func (s *Service) prepareChat(ctx context.Context, req agentmodel.ChatRequest) (string, error) {
	entityID := req.ResolveEntityID()
	if entityID == "" {
		return "", apperr.BadRequest("entity_id or account_id is required")
	}
	if strings.TrimSpace(req.Query) == "" {
		return "", apperr.BadRequest("query is required")
	}

	entityType := req.EntityType
	if entityType == "" {
		entityType = defaultEntityType
	}
	modules := resolveModules(entityType, req.Modules)

	if err := s.requireCollaborators(); err != nil {
		return "", err
	}

	token, err := s.accessToken(ctx)
	if err != nil {
		return "", err
	}

	record, err := s.fetchRecord(ctx, entityType, entityID, token)
	if err != nil {
		return "", err
	}

	sections := []string{crmtext.RecordToText(record, entityType)}

	related := make([]string, 0, len(modules))
	for _, m := range modules {
		if m != entityType {
			related = append(related, m)
		}
	}
	if len(related) > 0 {
		batches := s.fetchRelated(ctx, entityType, entityID, token, related)
		for i, module := range related {
			sections = append(sections, crmtext.RelatedRecordsToText(module, batches[i]))
		}
	}

	return ai.BuildChatPrompt(strings.Join(sections, "\n\n"), req.Query, modules), nil
}

// fetchRelated gathers every related module in parallel. A failed
// module logs and yields an empty batch; it never fails the turn and
// never cancels its siblings.
func (s *Service) fetchRelated(ctx context.Context, entityType, entityID, token string, modules []string) [][]*crm.Record {
	batches := make([][]*crm.Record, len(modules))

	var g errgroup.Group
	for i, module := range modules {
		g.Go(func() error {
			records, err := s.records.RelatedRecords(ctx, entityType, entityID, module, token, relatedFetchLimit)
			if err != nil {
				s.log.Warn("related module fetch failed",
					zap.String("module", module),
					zap.String("entity_id", entityID),
					zap.Error(err))
				return nil
			}
			batches[i] = records
			return nil
		})
	}
	_ = g.Wait()

	return batches
}

func (s *Service) fetchRecord(ctx context.Context, entityType, entityID, token string) (*crm.Record, error) {
	record, err := s.records.Record(ctx, entityType, entityID, token)
	if errors.Is(err, zoho.ErrRecordNotFound) {
		return nil, apperr.NotFound(entityType + " record not found in CRM")
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// accessToken obtains the CRM bearer token. Failures keep their
// configuration or timeout classification; anything else maps to the
// token-failure contract of a 500.
func (s *Service) accessToken(ctx context.Context) (string, error) {
	token, err := s.tokens.AccessToken(ctx)
	if err == nil {
		return token, nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) && (appErr.Kind == apperr.KindConfig || appErr.Kind == apperr.KindTimeout) {
		return "", err
	}
	return "", &apperr.Error{
		Kind:    apperr.KindUpstream,
		Message: "failed to get Zoho access token",
		Details: err.Error(),
		Status:  http.StatusInternalServerError,
	}
}

func (s *Service) requireCollaborators() error {
	if s.tokens == nil || s.records == nil {
		return apperr.Config("Zoho CRM credentials are not configured")
	}
	if s.gen == nil {
		return apperr.Config("generation backend is not configured")
	}
	return nil
}

// resolveModules deduplicates the requested modules and guarantees the
// record's own entity type is present, prepending it when missing. An
// empty request resolves to just the entity type itself.
func resolveModules(entityType string, requested []string) []string {
	if len(requested) == 0 {
		return []string{entityType}
	}

	seen := make(map[string]struct{}, len(requested)+1)
	modules := make([]string, 0, len(requested)+1)

	hasSelf := false
	for _, m := range requested {
		if m == entityType {
			hasSelf = true
		}
	}
	if !hasSelf {
		modules = append(modules, entityType)
		seen[entityType] = struct{}{}
	}

	for _, m := range requested {
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		modules = append(modules, m)
	}

	return modules
}
