package membership

import (
	"errors"
	"slices"
	"testing"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

var (
	alice = user.User{ID: 1, Name: "alice"}
	bob   = user.User{ID: 2, Name: "bob"}
	carol = user.User{ID: 3, Name: "carol"}
)

func int64Ptr(v int64) *int64 { return &v }

func fixture() (*project.Project, []*board.Board) {
	p := &project.Project{ID: 1, Owner: alice, Members: user.Members{alice, bob}}
	boards := []*board.Board{
		{ID: 10, ProjectID: int64Ptr(1), Owner: alice, Members: user.Members{alice, bob}},
		{ID: 11, ProjectID: int64Ptr(1), Owner: bob, Members: user.Members{bob, alice}},
		{ID: 12, ProjectID: int64Ptr(99), Owner: alice, Members: user.Members{alice, bob}},
	}
	return p, boards
}

func TestPropagateAdd(t *testing.T) {
	t.Parallel()

	p, boards := fixture()
	res := PropagateAdd(p, carol, boards)

	if !res.ProjectChanged || !p.HasMember(carol.ID) {
		t.Fatal("carol was not added to the project")
	}
	var changed []int64
	for _, b := range res.Boards {
		changed = append(changed, b.ID)
	}
	if !slices.Equal(changed, []int64{10, 11}) {
		t.Errorf("changed boards = %v, want [10 11]", changed)
	}
	if boards[2].HasMember(carol.ID) {
		t.Error("board of another project gained carol")
	}
}

func TestPropagateAdd_ExistingMemberIsNoop(t *testing.T) {
	t.Parallel()

	p, boards := fixture()
	res := PropagateAdd(p, bob, boards)

	if res.ProjectChanged || len(res.Boards) != 0 {
		t.Errorf("re-adding bob changed state: %+v", res)
	}
	if len(p.Members) != 2 {
		t.Errorf("project has %d members, want 2", len(p.Members))
	}
}

func TestPropagateRemove(t *testing.T) {
	t.Parallel()

	p, boards := fixture()
	p.Members.Add(carol)
	boards[0].Members.Add(carol)

	res, err := PropagateRemove(p, carol.ID, boards)
	if err != nil {
		t.Fatalf("PropagateRemove() = %v", err)
	}
	if p.HasMember(carol.ID) || boards[0].HasMember(carol.ID) {
		t.Error("carol still present after removal")
	}
	if len(res.Boards) != 1 || res.Boards[0].ID != 10 {
		t.Errorf("changed boards = %+v, want only board 10", res.Boards)
	}
}

func TestPropagateRemove_OwnerConflict(t *testing.T) {
	t.Parallel()

	p, boards := fixture()
	_, err := PropagateRemove(p, alice.ID, boards)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("PropagateRemove(owner) = %v, want ErrConflict", err)
	}
	if !p.HasMember(alice.ID) || !boards[0].HasMember(alice.ID) {
		t.Error("owner removal mutated state")
	}
}

func TestPropagateRemove_KeepsBoardOwner(t *testing.T) {
	t.Parallel()

	p, boards := fixture()
	res, err := PropagateRemove(p, bob.ID, boards)
	if err != nil {
		t.Fatalf("PropagateRemove() = %v", err)
	}
	if !slices.Equal(res.Retained, []int64{11}) {
		t.Errorf("Retained = %v, want [11]", res.Retained)
	}
	if !boards[1].HasMember(bob.ID) {
		t.Error("board 11 lost its owner")
	}
	if boards[0].HasMember(bob.ID) {
		t.Error("board 10 still has bob")
	}
	if !boards[2].HasMember(bob.ID) {
		t.Error("board of another project lost bob")
	}
}

func TestSeedBoard(t *testing.T) {
	t.Parallel()

	p, _ := fixture()
	b := &board.Board{Owner: carol}
	SeedBoard(b, p)

	if got := b.Members.IDs(); !slices.Equal(got, []int64{3, 1, 2}) {
		t.Errorf("members = %v, want [3 1 2]", got)
	}
}
