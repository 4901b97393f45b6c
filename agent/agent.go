package agent

import (
	"cmp"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nstehr/vimy/swarm-core/combat"
	"github.com/nstehr/vimy/swarm-core/harvest"
	"github.com/nstehr/vimy/swarm-core/ipc"
	"github.com/nstehr/vimy/swarm-core/macro"
	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/params"
	"github.com/nstehr/vimy/swarm-core/rules"
	"github.com/nstehr/vimy/swarm-core/strategy"
)

// Agent owns the decision-making for a single game. It is created per
// connection and reset by every hello.
type Agent struct {
	Conn *ipc.Connection

	base       params.Parameters
	buildOrder string

	params params.Parameters
	info   *model.GameInfo
	// GameID tags every log line of one game.
	GameID string

	planner    *macro.Planner
	prelude    *macro.Prelude
	harvest    *harvest.Engine
	engagement *combat.Engagement
	dodge      *combat.Dodge
	creep      *combat.CreepSpread
	scouts     *combat.Scouts
	filter     *rules.UpgradeFilter
	strategist *Strategist
	memory     *enemyMemory

	gasRatio   float64
	gasTarget  int
	confidence float64
	steps      int
}

// New creates an agent using p until a hello overrides it. A non-empty
// buildOrder replaces the one named in p.
func New(conn *ipc.Connection, p params.Parameters, buildOrder string) *Agent {
	return &Agent{Conn: conn, base: p, buildOrder: buildOrder}
}

// Start prepares a new game. Hello overrides win over the agent's own
// configuration.
func (a *Agent) Start(info model.GameInfo, vector map[string]float64, buildOrder string, seed uint64) error {
	p, err := a.base.FromVector(vector)
	if err != nil {
		return fmt.Errorf("apply params: %w", err)
	}
	name := cmp.Or(buildOrder, a.buildOrder, p.BuildOrder)
	prelude, err := macro.NewPrelude(name)
	if err != nil {
		return err
	}
	filter, err := rules.NewUpgradeFilter()
	if err != nil {
		return fmt.Errorf("compile upgrade rules: %w", err)
	}

	a.GameID = uuid.NewString()
	a.params = p
	a.info = &info
	a.prelude = prelude
	a.filter = filter
	a.planner = macro.NewPlanner(p.MinPriority, seed)
	a.harvest = harvest.NewEngine()
	a.engagement = combat.NewEngagement(p)
	a.dodge = combat.NewDodge(p)
	a.creep = combat.NewCreepSpread(p)
	a.scouts = combat.NewScouts(seed)
	a.strategist = NewStrategist()
	a.memory = newEnemyMemory()
	a.gasRatio = p.GasRatio
	a.gasTarget = 0
	a.confidence = 0
	a.steps = 0

	slog.Info("game started",
		"game", a.GameID,
		"build_order", name,
		"enemy_race", info.EnemyRace,
		"map", fmt.Sprintf("%dx%d", info.MapWidth, info.MapHeight),
		"bases", len(info.Bases),
		"seed", seed,
	)
	return nil
}

// Started reports whether a hello has been handled.
func (a *Agent) Started() bool { return a.planner != nil }

// HandleHello starts a new game and acknowledges it.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}
	if err := a.Start(hello.GameInfo, hello.Params, hello.BuildOrder, hello.Seed); err != nil {
		return nil, err
	}
	if a.Conn != nil {
		a.Conn.Player = hello.Player
	}
	slog.Info("player identified", "player", hello.Player, "game", a.GameID)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleObservation runs one step and replies with its orders.
func (a *Agent) HandleObservation(env ipc.Envelope) (*ipc.Envelope, error) {
	if !a.Started() {
		return nil, fmt.Errorf("observation before hello")
	}
	var msg ipc.ObservationMessage
	if err := env.Decode(&msg); err != nil {
		return nil, fmt.Errorf("unmarshal observation: %w", err)
	}

	a.memory.Update(&msg.Snapshot)
	obs := model.NewObservation(a.info, msg.Snapshot, a.planner.Counts())
	orders := a.Step(obs)

	resp, err := ipc.NewEnvelope(ipc.TypeActions, ipc.ActionsMessage{
		GameLoop: obs.GameLoop,
		Actions:  ipc.EncodeActions(orders),
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Step decides one order per unit for obs. Layers run in precedence order
// and a unit keeps the first order it is given: cancels, the build order and
// planner, harvesting, combat, then dodging for everyone left.
func (a *Agent) Step(obs *model.Observation) Orders {
	a.steps++
	host := newHostQueries(obs)

	a.dodge.Update(obs)
	a.creep.Update(obs)
	a.scouts.Update(obs)

	a.strategist.Observe(obs)
	strat := strategy.New(obs, a.params, a.filter, a.strategist.Intel())
	a.strategist.Promote(strat.Tier(), obs.GameLoop)

	orders := Orders{}
	cancelDoomed(obs, orders)
	a.macroStep(obs, host, strat, orders)
	harvesters, gasTarget := a.gasStep(obs, strat)

	step := combat.NewStep(obs, host, a.params, a.engagement, a.dodge)
	a.confidence = step.Prediction.Global

	a.harvestLayer(step, harvesters, gasTarget, orders)
	a.combatLayer(step, orders)
	a.dodgeLayer(obs, orders)

	if a.steps%100 == 0 {
		slog.Info("step",
			"game", a.GameID,
			"loop", obs.GameLoop,
			"tier", strat.Tier(),
			"supply", fmt.Sprintf("%.0f/%.0f", obs.SupplyUsed, obs.SupplyCap),
			"workers", len(obs.Workers),
			"army", len(step.Combatants),
			"enemies", len(obs.EnemyAll),
			"remembered", a.memory.Len(),
			"gas_ratio", a.gasRatio,
			"prediction", step.Prediction.Global,
			"attacking", step.AttackingGlobal(),
		)
	}
	slog.Debug("orders", "loop", obs.GameLoop, "count", len(orders))
	return orders
}
