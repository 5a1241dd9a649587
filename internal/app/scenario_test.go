package app

import (
	"testing"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// A project member gains and loses card access through the project alone.
func TestProjectMembershipGovernsBoardAccess(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	launch, err := f.projects.CreateProject(ctxBG(), f.alice, "Launch", "")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	sprint, err := f.boards.CreateBoard(ctxBG(), f.alice, ports.BoardDraft{Name: "Sprint 1", ProjectID: &launch.ID})
	if err != nil {
		t.Fatalf("CreateBoard() error = %v", err)
	}
	todo := f.column(t, f.alice, sprint.ID, "To do")

	if _, err := f.projects.AddMember(ctxBG(), launch.ID, f.alice, f.bob.Email); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if !f.loadBoard(t, sprint.ID).HasMember(f.bob.ID) {
		t.Fatal("bob was not propagated to Sprint 1")
	}

	c, err := f.cards.CreateCard(ctxBG(), todo.ID, f.bob, ports.CardDraft{Title: "Write launch notes"})
	if err != nil {
		t.Fatalf("CreateCard() as bob error = %v", err)
	}

	if _, err := f.projects.RemoveMember(ctxBG(), launch.ID, f.alice, f.bob.ID); err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}

	_, err = f.cards.UpdateCard(ctxBG(), c.ID, f.bob, ports.CardUpdate{Title: strPtr("Ship it")})
	requireErrorIs(t, err, domain.ErrForbidden)

	got := f.loadBoard(t, sprint.ID)
	if !got.HasMember(f.alice.ID) {
		t.Error("owner left the board member set")
	}
	if got.HasMember(f.bob.ID) {
		t.Error("bob is still a board member")
	}
}
