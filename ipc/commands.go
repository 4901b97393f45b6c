package ipc

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
)

// Action kinds understood by the host.
const (
	KindMove       = "move"
	KindAttackMove = "attack_move"
	KindHold       = "hold"
	KindSmart      = "smart"
	KindAttack     = "attack"
	KindAbility    = "ability"
)

// Action is one unit command on the wire. Queued commands run after the
// previous command for the same unit.
type Action struct {
	Tag       model.Tag       `json:"tag"`
	Kind      string          `json:"kind"`
	Ability   model.AbilityID `json:"ability,omitempty"`
	TargetTag model.Tag       `json:"target_tag,omitempty"`
	Position  *model.Position `json:"position,omitempty"`
	Queue     bool            `json:"queue"`
}

// EncodeActions flattens per-unit orders into wire commands, ordered by tag.
func EncodeActions(orders map[model.Tag]model.Action) []Action {
	out := make([]Action, 0, len(orders))
	for _, tag := range slices.Sorted(maps.Keys(orders)) {
		out = append(out, Encode(tag, orders[tag])...)
	}
	return out
}

// Encode converts a single order. Staged gather and return orders become a
// move to the staging point followed by a queued command on the target.
func Encode(tag model.Tag, a model.Action) []Action {
	switch a := a.(type) {
	case model.Move:
		return []Action{{Tag: tag, Kind: KindMove, Position: ptr(a.Target)}}
	case model.AttackMove:
		return []Action{{Tag: tag, Kind: KindAttackMove, Position: ptr(a.Target)}}
	case model.HoldPosition:
		return []Action{{Tag: tag, Kind: KindHold}}
	case model.Smart:
		return []Action{{Tag: tag, Kind: KindSmart, TargetTag: a.Target}}
	case model.Attack:
		return []Action{{Tag: tag, Kind: KindAttack, TargetTag: a.Target}}
	case model.UseAbility:
		out := Action{Tag: tag, Kind: KindAbility, Ability: a.Ability, TargetTag: a.TargetTag}
		if a.TargetPos != nil {
			out.Position = ptr(*a.TargetPos)
		}
		return []Action{out}
	case model.GatherAction:
		if !a.Stage {
			return []Action{{Tag: tag, Kind: KindSmart, TargetTag: a.Resource}}
		}
		return []Action{
			{Tag: tag, Kind: KindMove, Position: ptr(a.MiningPosition)},
			{Tag: tag, Kind: KindSmart, TargetTag: a.Resource, Queue: true},
		}
	case model.ReturnResource:
		if !a.Stage {
			return []Action{{Tag: tag, Kind: KindAbility, Ability: model.AbilityHarvestReturn, TargetTag: a.Townhall}}
		}
		return []Action{
			{Tag: tag, Kind: KindMove, Position: ptr(a.Approach)},
			{Tag: tag, Kind: KindSmart, TargetTag: a.Townhall, Queue: true},
		}
	case nil:
		return nil
	}
	slog.Warn("unknown action type", "tag", tag, "action", a)
	return nil
}

func ptr(p model.Position) *model.Position { return &p }

