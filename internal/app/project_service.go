package app

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/access"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/membership"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// Compile-time check that ProjectService implements ports.ProjectService.
var _ ports.ProjectService = (*ProjectService)(nil)

// ProjectService implements ports.ProjectService. Member changes are
// propagated to every board under the project in the same unit of work.
type ProjectService struct {
	store   ports.Store
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewProjectService creates a ProjectService. metrics may be nil, in which
// case membership propagation is not counted.
func NewProjectService(store ports.Store, metrics *telemetry.Metrics, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		store:   store,
		metrics: metrics,
		logger:  orDiscard(logger),
	}
}

// CreateProject validates and creates a project owned by the actor.
func (s *ProjectService) CreateProject(ctx context.Context, actor *user.User, name, description string) (*project.Project, error) {
	s.logger.InfoContext(ctx, "creating project", slog.String("name", name))

	if err := requireActor(actor); err != nil {
		return nil, err
	}

	newProject := func() *project.Project {
		return &project.Project{
			Name:        name,
			Description: description,
			Owner:       *actor,
			Members:     user.Members{*actor},
		}
	}
	if err := newProject().Validate(); err != nil {
		return nil, err
	}

	var created *project.Project
	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		p := newProject()
		if err := repo.SaveProject(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create project",
			slog.String("operation", "CreateProject"),
			slog.Int64("actor_id", actor.ID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// GetProject returns a project the actor is a member of.
func (s *ProjectService) GetProject(ctx context.Context, id int64, actor *user.User) (*project.Project, error) {
	s.logger.InfoContext(ctx, "fetching project", slog.Int64("id", id))

	p, err := s.store.FindProjectByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch project",
			slog.String("operation", "GetProject"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	if err := access.RequireMember(actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns every project the actor is a member of.
func (s *ProjectService) ListProjects(ctx context.Context, actor *user.User) ([]*project.Project, error) {
	s.logger.InfoContext(ctx, "listing projects")

	if err := requireActor(actor); err != nil {
		return nil, err
	}

	projects, err := s.store.FindProjectsByMemberID(ctx, actor.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list projects",
			slog.String("operation", "ListProjects"),
			slog.Int64("actor_id", actor.ID),
			slog.Any("error", err),
		)
		return nil, err
	}
	return projects, nil
}

// UpdateProject applies the non-nil fields of upd. Owner only.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, actor *user.User, upd ports.ProjectUpdate) (*project.Project, error) {
	s.logger.InfoContext(ctx, "updating project", slog.Int64("id", id))

	var out *project.Project
	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		p, err := repo.FindProjectByID(ctx, id)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(actor, p); err != nil {
			return err
		}

		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if err := p.Validate(); err != nil {
			return err
		}

		out = p
		return repo.SaveProject(ctx, p)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update project",
			slog.String("operation", "UpdateProject"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}
	return out, nil
}

// DeleteProject deletes a project. Owner only. Its boards survive as
// standalone boards.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64, actor *user.User) error {
	s.logger.InfoContext(ctx, "deleting project", slog.Int64("id", id))

	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		p, err := repo.FindProjectByID(ctx, id)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(actor, p); err != nil {
			return err
		}

		boards, err := repo.FindBoardsByProjectID(ctx, id)
		if err != nil {
			return err
		}
		for _, b := range boards {
			b.ProjectID = nil
			if err := repo.SaveBoard(ctx, b); err != nil {
				return err
			}
		}
		return repo.DeleteProject(ctx, id)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete project",
			slog.String("operation", "DeleteProject"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// AddMember adds the user registered under email to the project and every
// board under it. Owner only.
func (s *ProjectService) AddMember(ctx context.Context, id int64, actor *user.User, email string) (*project.Project, error) {
	s.logger.InfoContext(ctx, "adding project member", slog.Int64("id", id))

	var out *project.Project
	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		p, err := repo.FindProjectByID(ctx, id)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(actor, p); err != nil {
			return err
		}
		u, err := repo.FindUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		boards, err := repo.FindBoardsByProjectID(ctx, id)
		if err != nil {
			return err
		}

		out = p
		res := membership.PropagateAdd(p, *u, boards)
		if !res.ProjectChanged {
			return nil
		}
		if err := repo.SaveProject(ctx, p); err != nil {
			return err
		}
		return s.saveMemberBoards(ctx, repo, p.ID, res.Boards)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to add project member",
			slog.String("operation", "AddMember"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.countPropagation(ctx, "add")
	return out, nil
}

// RemoveMember removes a user from the project and every board under it.
// Owner only; the owner cannot remove themselves.
func (s *ProjectService) RemoveMember(ctx context.Context, id int64, actor *user.User, userID int64) (*project.Project, error) {
	s.logger.InfoContext(ctx, "removing project member",
		slog.Int64("id", id),
		slog.Int64("user_id", userID),
	)

	var out *project.Project
	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		p, err := repo.FindProjectByID(ctx, id)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(actor, p); err != nil {
			return err
		}
		if _, err := repo.FindUserByID(ctx, userID); err != nil {
			return err
		}
		boards, err := repo.FindBoardsByProjectID(ctx, id)
		if err != nil {
			return err
		}

		res, err := membership.PropagateRemove(p, userID, boards)
		if err != nil {
			return err
		}
		if len(res.Retained) > 0 {
			s.logger.WarnContext(ctx, "member kept on boards they own",
				slog.Int64("project_id", id),
				slog.Int64("user_id", userID),
				slog.Any("board_ids", res.Retained),
			)
		}

		out = p
		if res.ProjectChanged {
			if err := repo.SaveProject(ctx, p); err != nil {
				return err
			}
		}
		return s.saveMemberBoards(ctx, repo, p.ID, res.Boards)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to remove project member",
			slog.String("operation", "RemoveMember"),
			slog.Int64("id", id),
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.countPropagation(ctx, "remove")
	return out, nil
}

// saveMemberBoards attempts every board and reports all failures together.
// The returned error aborts the unit of work, so project and board
// membership are never left disagreeing.
func (s *ProjectService) saveMemberBoards(ctx context.Context, repo ports.Repository, projectID int64, boards []*board.Board) error {
	var failures []domain.BoardFailure
	for _, b := range boards {
		if err := repo.SaveBoard(ctx, b); err != nil {
			failures = append(failures, domain.BoardFailure{BoardID: b.ID, Err: err})
		}
	}
	if len(failures) > 0 {
		return &domain.PartialFailureError{ProjectID: projectID, Failures: failures}
	}
	return nil
}

func (s *ProjectService) countPropagation(ctx context.Context, direction string) {
	if s.metrics == nil || s.metrics.MembershipPropagations == nil {
		return
	}
	s.metrics.MembershipPropagations.Add(ctx, 1,
		metric.WithAttributes(telemetry.AttrDirection.String(direction)),
	)
}
