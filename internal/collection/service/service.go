// Package service provides the business logic layer for the collection module.
package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promptstash/promptstash/internal/access"
	collectionModel "github.com/promptstash/promptstash/internal/collection/model"
	"github.com/promptstash/promptstash/internal/collection/repository"
)

// Service defines the interface for collection business logic operations.
type Service interface {
	// Create creates a collection owned by the actor. Team collections
	// must reference a team and must not be PRIVATE.
	Create(ctx context.Context, actor access.Actor, req *collectionModel.CreateCollectionRequest) (*collectionModel.CollectionResponse, error)

	// Get returns a collection the actor may read with its ordered items.
	Get(ctx context.Context, actor access.Actor, collectionID string) (*collectionModel.CollectionResponse, error)

	// List returns every collection the actor may read.
	List(ctx context.Context, actor access.Actor) ([]collectionModel.Collection, error)

	// Update mutates a collection the actor may write.
	Update(ctx context.Context, actor access.Actor, collectionID string, req *collectionModel.UpdateCollectionRequest) (*collectionModel.CollectionResponse, error)

	// Delete removes a collection the actor may write.
	Delete(ctx context.Context, actor access.Actor, collectionID string) error

	// AddItem appends a readable prompt to a writable collection.
	AddItem(ctx context.Context, actor access.Actor, collectionID, promptID string) error

	// RemoveItem removes a prompt from a writable collection.
	RemoveItem(ctx context.Context, actor access.Actor, collectionID, promptID string) error
}

type service struct {
	repo     repository.Repository
	resolver *access.Resolver
	logger   *zap.SugaredLogger
}

// New creates a new collection service instance.
func New(repo repository.Repository, resolver *access.Resolver, logger *zap.SugaredLogger) Service {
	return &service{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}
}

const maxNameLength = 255

// Create creates a collection owned by the actor.
func (s *service) Create(ctx context.Context, actor access.Actor, req *collectionModel.CreateCollectionRequest) (*collectionModel.CollectionResponse, error) {
	if req.Name == "" || len(req.Name) > maxNameLength {
		return nil, collectionModel.ErrInvalidName
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = access.VisibilityPrivate
	}
	if err := access.ValidateScope(visibility, req.TeamID); err != nil {
		return nil, err
	}
	// Collections are stricter than prompts: TEAM visibility always
	// requires a team reference.
	if visibility == access.VisibilityTeam && req.TeamID == nil {
		return nil, collectionModel.ErrTeamRequired
	}
	if req.TeamID != nil {
		if err := s.requireMembership(ctx, actor, *req.TeamID); err != nil {
			return nil, err
		}
	}

	collection := &collectionModel.Collection{
		ID:          uuid.NewString(),
		OwnerID:     actor.ID,
		TeamID:      req.TeamID,
		Name:        req.Name,
		Description: req.Description,
		Visibility:  visibility,
	}
	if err := s.repo.Create(ctx, collection); err != nil {
		return nil, err
	}

	s.logger.Infow("collection created", "collection_id", collection.ID, "owner_id", actor.ID)
	return &collectionModel.CollectionResponse{
		Collection: *collection,
		PromptIDs:  []string{},
	}, nil
}

// Get returns a collection the actor may read with its ordered items.
func (s *service) Get(ctx context.Context, actor access.Actor, collectionID string) (*collectionModel.CollectionResponse, error) {
	collection, err := s.getReadable(ctx, actor, collectionID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	return &collectionModel.CollectionResponse{
		Collection: *collection,
		PromptIDs:  items,
	}, nil
}

// List returns every collection the actor may read.
func (s *service) List(ctx context.Context, actor access.Actor) ([]collectionModel.Collection, error) {
	return s.repo.ListVisible(ctx, actor.ID)
}

// Update mutates a collection the actor may write.
func (s *service) Update(ctx context.Context, actor access.Actor, collectionID string, req *collectionModel.UpdateCollectionRequest) (*collectionModel.CollectionResponse, error) {
	collection, err := s.getWritable(ctx, actor, collectionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" || len(*req.Name) > maxNameLength {
			return nil, collectionModel.ErrInvalidName
		}
		collection.Name = *req.Name
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}
	if req.Visibility != nil {
		collection.Visibility = *req.Visibility
	}

	if err := access.ValidateScope(collection.Visibility, collection.TeamID); err != nil {
		return nil, err
	}
	if collection.Visibility == access.VisibilityTeam && collection.TeamID == nil {
		return nil, collectionModel.ErrTeamRequired
	}

	if err := s.repo.Update(ctx, collection); err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	return &collectionModel.CollectionResponse{
		Collection: *collection,
		PromptIDs:  items,
	}, nil
}

// Delete removes a collection the actor may write.
func (s *service) Delete(ctx context.Context, actor access.Actor, collectionID string) error {
	if _, err := s.getWritable(ctx, actor, collectionID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, collectionID)
}

// AddItem appends a readable prompt to a writable collection.
func (s *service) AddItem(ctx context.Context, actor access.Actor, collectionID, promptID string) error {
	if _, err := s.getWritable(ctx, actor, collectionID); err != nil {
		return err
	}

	prompt, err := s.repo.GetPromptForAccess(ctx, promptID)
	if err != nil {
		return err
	}
	readable, err := s.resolver.CanRead(ctx, actor, prompt)
	if err != nil {
		return err
	}
	if !readable {
		return collectionModel.ErrPromptNotFound
	}

	return s.repo.AddItem(ctx, collectionID, promptID)
}

// RemoveItem removes a prompt from a writable collection.
func (s *service) RemoveItem(ctx context.Context, actor access.Actor, collectionID, promptID string) error {
	if _, err := s.getWritable(ctx, actor, collectionID); err != nil {
		return err
	}
	return s.repo.RemoveItem(ctx, collectionID, promptID)
}

// getReadable loads a collection and hides inaccessible ones behind
// not-found.
func (s *service) getReadable(ctx context.Context, actor access.Actor, collectionID string) (*collectionModel.Collection, error) {
	collection, err := s.repo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	readable, err := s.resolver.CanRead(ctx, actor, collection)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, collectionModel.ErrCollectionNotFound
	}
	return collection, nil
}

// getWritable loads a collection, hiding unreadable ones and refusing
// readable-but-unwritable ones.
func (s *service) getWritable(ctx context.Context, actor access.Actor, collectionID string) (*collectionModel.Collection, error) {
	collection, err := s.getReadable(ctx, actor, collectionID)
	if err != nil {
		return nil, err
	}
	writable, err := s.resolver.CanWrite(ctx, actor, collection)
	if err != nil {
		return nil, err
	}
	if !writable {
		return nil, access.ErrForbidden
	}
	return collection, nil
}

// requireMembership checks the actor belongs to the team they are scoping
// the collection to.
func (s *service) requireMembership(ctx context.Context, actor access.Actor, teamID string) error {
	res := teamScopedCheck{teamID: teamID}
	readable, err := s.resolver.CanRead(ctx, actor, res)
	if err != nil {
		return err
	}
	if !readable {
		return collectionModel.ErrNotTeamMember
	}
	return nil
}

// teamScopedCheck is a synthetic TEAM-visibility resource used to test an
// actor's membership through the resolver.
type teamScopedCheck struct {
	teamID string
}

func (t teamScopedCheck) GetOwnerID() string               { return "" }
func (t teamScopedCheck) GetVisibility() access.Visibility { return access.VisibilityTeam }
func (t teamScopedCheck) GetTeamID() *string               { return &t.teamID }
