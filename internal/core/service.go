package core

import (
	"context"
	"fmt"

	"github.com/agenthands/nasab/internal/config"
	"github.com/agenthands/nasab/internal/core/dedupe"
	"github.com/agenthands/nasab/internal/core/federation"
	"github.com/agenthands/nasab/internal/core/model"
	"github.com/agenthands/nasab/internal/core/tree"
	"github.com/agenthands/nasab/internal/logger"
)

// PersonWriter persists groups and person records.
type PersonWriter interface {
	SavePerson(ctx context.Context, p model.PersonRecord) (model.PersonRecord, error)
	SaveGroup(ctx context.Context, id, name string) error
	LinkGroup(ctx context.Context, groupID, parentID string) error
}

// Invalidator drops cached member lists after a write.
type Invalidator interface {
	Invalidate(ctx context.Context, groupIDs ...string) error
}

type Service struct {
	Store         federation.GroupStore
	Writer        PersonWriter
	Invalidator   Invalidator
	Resolver      *dedupe.Resolver
	Assembler     *tree.Assembler
	Federator     *federation.Federator
	HeadRelations []string
	Log           *logger.Logger
}

func NewService(store federation.GroupStore, writer PersonWriter, cfg *config.Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	assembler := tree.NewAssemblerFromConfig(cfg.Tree)
	s := &Service{
		Store:         store,
		Writer:        writer,
		Resolver:      dedupe.NewResolverFromConfig(cfg.Matching),
		Assembler:     assembler,
		Federator:     federation.NewFederator(store, assembler, cfg, log),
		HeadRelations: cfg.Tree.HeadRelations,
		Log:           log.With("component", "Service"),
	}
	if inv, ok := store.(Invalidator); ok {
		s.Invalidator = inv
	}
	return s
}

func (s *Service) loadMembers(ctx context.Context, groupID string) ([]model.PersonRecord, error) {
	members, err := s.Store.LoadGroupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: members of group %q: %w", model.ErrExternalLoad, groupID, err)
	}
	return members, nil
}

// Resolve classifies target against the members of groupID.
func (s *Service) Resolve(ctx context.Context, groupID string, target model.PersonRecord) (model.ResolutionDecision, error) {
	members, err := s.loadMembers(ctx, groupID)
	if err != nil {
		return model.ResolutionDecision{}, err
	}
	return s.Resolver.Resolve(target, members)
}

// FindSimilar ranks members of groupID against target. A threshold of zero
// or less uses the resolver's default.
func (s *Service) FindSimilar(ctx context.Context, groupID string, target model.PersonRecord, threshold int) ([]model.MatchCandidate, error) {
	members, err := s.loadMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = s.Resolver.Policy.FindThreshold
	}
	return s.Resolver.FindSimilar(target, members, threshold), nil
}

// GroupTree assembles the tree of a single group under its head.
func (s *Service) GroupTree(ctx context.Context, groupID string) (*model.TreeNode, tree.Stats, error) {
	members, err := s.loadMembers(ctx, groupID)
	if err != nil {
		return nil, tree.Stats{}, err
	}
	name := ""
	if namer, ok := s.Store.(federation.GroupNamer); ok {
		if name, err = namer.LoadGroupName(ctx, groupID); err != nil {
			return nil, tree.Stats{}, fmt.Errorf("%w: name of group %q: %w", model.ErrExternalLoad, groupID, err)
		}
	}
	head, ok := tree.SelectHead(members, name, s.HeadRelations)
	if !ok {
		return nil, tree.Stats{}, fmt.Errorf("group %q has no members: %w", groupID, model.ErrNoRoot)
	}
	return s.Assembler.Build(members, &head)
}

// FederatedTree builds one tree across every group linked to groupID.
func (s *Service) FederatedTree(ctx context.Context, groupID string) (*federation.Result, error) {
	return s.Federator.Federate(ctx, groupID)
}

// AddMember resolves p against its group before saving it. Unless force is
// set, only a Created decision is persisted; any other decision is returned
// for the caller to confirm.
func (s *Service) AddMember(ctx context.Context, groupID string, p model.PersonRecord, force bool) (model.ResolutionDecision, *model.PersonRecord, error) {
	if s.Writer == nil {
		return model.ResolutionDecision{}, nil, fmt.Errorf("service has no writer")
	}
	p.GroupID = groupID

	decision, err := s.Resolve(ctx, groupID, p)
	if err != nil {
		return decision, nil, err
	}
	if decision.Kind != model.DecisionCreated && !force {
		s.Log.Info("member not saved, resolution needs confirmation",
			"group_id", groupID, "decision", decision.Kind, "similarity", decision.Similarity)
		return decision, nil, nil
	}

	saved, err := s.Writer.SavePerson(ctx, p)
	if err != nil {
		return decision, nil, err
	}
	if s.Invalidator != nil {
		if err := s.Invalidator.Invalidate(ctx, groupID); err != nil {
			s.Log.Warn("cache invalidation failed", "group_id", groupID, "error", err)
		}
	}
	s.Log.Info("member saved", "group_id", groupID, "id", saved.ID, "decision", decision.Kind, "forced", force)
	return decision, &saved, nil
}

// CreateGroup saves a group and, when parentID is set, links it under parentID.
func (s *Service) CreateGroup(ctx context.Context, id, name, parentID string) error {
	if s.Writer == nil {
		return fmt.Errorf("service has no writer")
	}
	if id == "" {
		return fmt.Errorf("group id required: %w", model.ErrInvalidInput)
	}
	if id == parentID {
		return fmt.Errorf("group %q cannot link to itself: %w", id, model.ErrInvalidInput)
	}
	if err := s.Writer.SaveGroup(ctx, id, name); err != nil {
		return err
	}
	if parentID == "" {
		return nil
	}
	return s.Writer.LinkGroup(ctx, id, parentID)
}
