package ipc

import "github.com/nstehr/vimy/swarm-core/model"

// Message types exchanged with the host.
const (
	TypeHello       = "hello"
	TypeAck         = "ack"
	TypeObservation = "observation"
	TypeActions     = "actions"
)

// HelloMessage carries the static game info once per game. BuildOrder and
// Params override the sidecar's configuration when set.
type HelloMessage struct {
	Player string `json:"player"`
	model.GameInfo
	BuildOrder string             `json:"buildOrder,omitempty"`
	Params     map[string]float64 `json:"params,omitempty"`
	Seed       uint64             `json:"seed,omitempty"`
}

// ObservationMessage is the per-step snapshot.
type ObservationMessage struct {
	model.Snapshot
}

// ActionsMessage answers an observation with the orders for that step.
type ActionsMessage struct {
	GameLoop int      `json:"gameLoop"`
	Actions  []Action `json:"actions"`
}

type AckMessage struct {
	Status string `json:"status"`
}
