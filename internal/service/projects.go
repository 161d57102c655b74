package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/projects_api/internal/logging"
	"github.com/Skotchmaster/projects_api/internal/models"
	"github.com/Skotchmaster/projects_api/internal/mykafka"
	"github.com/Skotchmaster/projects_api/internal/repo"
)

// placeholder is the value clients send for a field they do not want to change.
const placeholder = "string"

type Publisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
}

type Indexer interface {
	IndexProject(ctx context.Context, p models.Project) error
	DeleteProject(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Project, error)
}

// ProjectService works without Events or Search; both are optional.
type ProjectService struct {
	Repo   *repo.GormRepo
	Events Publisher
	Search Indexer
	Now    func() time.Time
}

type UpdateResult struct {
	Project *models.Project
	Changed bool
}

func (s *ProjectService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *ProjectService) publish(ctx context.Context, typ string, p *models.Project, actorID uint) {
	if s.Events == nil {
		return
	}
	l := logging.FromContext(ctx)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	ev := mykafka.ProjectEvent{
		Type:      typ,
		ProjectID: p.ID,
		Name:      p.Name,
		ActorID:   actorID,
		At:        s.now(),
	}
	if typ == mykafka.EventProjectDeleted {
		ev.Name = ""
	}
	if err := s.Events.PublishEvent(ctx, strconv.FormatUint(uint64(p.ID), 10), ev); err != nil {
		l.Error("kafka_publish_failed", "event", typ, "project_id", p.ID, "error", err)
	}
}

func (s *ProjectService) reindex(ctx context.Context, p *models.Project, deleted bool) {
	if s.Search == nil {
		return
	}
	l := logging.FromContext(ctx)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	var err error
	if deleted {
		err = s.Search.DeleteProject(ctx, p.ID)
	} else {
		err = s.Search.IndexProject(ctx, *p)
	}
	if err != nil {
		l.Error("search_index_failed", "project_id", p.ID, "deleted", deleted, "error", err)
	}
}

func (s *ProjectService) ListProjects(ctx context.Context, sortBy string) ([]models.Project, error) {
	var ascending bool
	switch sortBy {
	case "", "desc":
	case "asc":
		ascending = true
	default:
		return nil, newError(ErrValidation, "Invalid sort parameter. Use 'asc' or 'desc'.")
	}
	return s.Repo.ListProjects(ctx, ascending)
}

func (s *ProjectService) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	p, err := s.Repo.GetProject(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrNotFound, "Project not found")
	}
	return p, err
}

func (s *ProjectService) CreateProject(ctx context.Context, actorID uint, name, description string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(ErrValidation, "name is required")
	}

	p := &models.Project{Name: name, Description: description}
	if err := s.Repo.CreateProject(ctx, p); err != nil {
		if errors.Is(err, repo.ErrProjectNameTaken) {
			return nil, newError(ErrConflict, "Project with this name already exists")
		}
		return nil, err
	}

	s.publish(ctx, mykafka.EventProjectCreated, p, actorID)
	s.reindex(ctx, p, false)
	return p, nil
}

func supplied(v string) bool {
	return v != "" && v != placeholder
}

// UpdateProject applies the supplied fields. When neither field is supplied
// the stored project is returned unchanged with Changed=false.
func (s *ProjectService) UpdateProject(ctx context.Context, actorID, id uint, name, description string) (*UpdateResult, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if !supplied(name) && !supplied(description) {
		return &UpdateResult{Project: p, Changed: false}, nil
	}

	if supplied(name) {
		p.Name = strings.TrimSpace(name)
		if p.Name == "" {
			return nil, newError(ErrValidation, "name is required")
		}
	}
	if supplied(description) {
		p.Description = description
	}

	if err := s.Repo.SaveProject(ctx, p); err != nil {
		if errors.Is(err, repo.ErrProjectNameTaken) {
			return nil, newError(ErrConflict, "Project with this name already exists")
		}
		return nil, err
	}

	s.publish(ctx, mykafka.EventProjectUpdated, p, actorID)
	s.reindex(ctx, p, false)
	return &UpdateResult{Project: p, Changed: true}, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, actorID, id uint) (*models.Project, error) {
	p, err := s.Repo.DeleteProject(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "Project not found")
		}
		return nil, err
	}

	s.publish(ctx, mykafka.EventProjectDeleted, p, actorID)
	s.reindex(ctx, p, true)
	return p, nil
}

func (s *ProjectService) SearchProjects(ctx context.Context, query string, from, size int) (int64, []models.Project, error) {
	if s.Search == nil {
		return 0, nil, ErrSearchDisabled
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, newError(ErrValidation, "query parameter q is required")
	}
	return s.Search.Search(ctx, query, from, size)
}
