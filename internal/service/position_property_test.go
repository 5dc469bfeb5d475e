package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"kanban-chat-api/internal/dto"
)

func isDense(positions []int) bool {
	for i, p := range positions {
		if p != i {
			return false
		}
	}
	return true
}

// applyOp interprets v as one board mutation. Invalid picks are skipped.
func applyOp(t *testing.T, env *testEnv, boardID uuid.UUID, v int) {
	ctx := context.Background()
	info, err := env.boards.GetBoard(ctx, env.ownerID, boardID)
	if err != nil {
		t.Fatalf("get board: %v", err)
	}
	pos := (v / 7) % 6

	switch v % 6 {
	case 0, 1:
		if len(info.Columns) == 0 {
			return
		}
		col := info.Columns[(v/11)%len(info.Columns)]
		_, err = env.cards.CreateCard(ctx, env.ownerID, boardID, col.ID, &dto.CreateCardRequest{Name: "k", Position: &pos})
	case 2:
		if len(info.Cards) == 0 || len(info.Columns) == 0 {
			return
		}
		card := info.Cards[(v/11)%len(info.Cards)]
		to := info.Columns[(v/13)%len(info.Columns)]
		_, err = env.cards.ReorderCard(ctx, env.ownerID, boardID, card.ID, card.ColumnID, to.ID, pos)
	case 3:
		if len(info.Cards) == 0 {
			return
		}
		card := info.Cards[(v/11)%len(info.Cards)]
		_, err = env.cards.DeleteCard(ctx, env.ownerID, boardID, card.ColumnID, card.ID)
	case 4:
		_, err = env.columns.CreateColumn(ctx, env.ownerID, boardID, &dto.CreateColumnRequest{Position: &pos})
	case 5:
		if len(info.Columns) == 0 {
			return
		}
		col := info.Columns[(v/11)%len(info.Columns)]
		if (v/17)%2 == 0 {
			_, err = env.columns.UpdateColumn(ctx, env.ownerID, boardID, col.ID, &dto.UpdateColumnRequest{Position: &pos})
		} else {
			_, err = env.columns.DeleteColumn(ctx, env.ownerID, boardID, col.ID)
		}
	}
	if err != nil {
		t.Fatalf("op %d: %v", v, err)
	}
}

func TestProperty_BoardPositionsStayDense(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	properties.Property("columns and cards keep dense positions under any mutation sequence", prop.ForAll(
		func(ops []int) bool {
			env := setupEnv(t)
			env.ownerID = env.user(t, "owner").ID
			boardID, _ := env.board(t, env.ownerID, 2, 1)

			for _, v := range ops {
				applyOp(t, env, boardID, v)
			}

			if !isDense(env.columnPositions(t, boardID)) {
				return false
			}
			columns, err := env.store.Columns.ListByBoard(context.Background(), boardID)
			if err != nil {
				return false
			}
			for _, c := range columns {
				if !isDense(env.cardPositions(t, c.ID)) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(30, gen.IntRange(0, 10000)),
	))

	properties.TestingRun(t)
}
