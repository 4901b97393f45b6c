package ipc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nstehr/vimy/swarm-core/model"
)

func TestEnvelopeFraming(t *testing.T) {
	var buf bytes.Buffer
	env, err := NewEnvelope(TypeAck, AckMessage{Status: "ok"})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if err := WriteEnvelope(&buf, env); err != nil {
		t.Fatalf("WriteEnvelope: %v", err)
	}

	length := binary.LittleEndian.Uint32(buf.Bytes()[:4])
	if int(length) != buf.Len()-4 {
		t.Errorf("length prefix = %d, want %d", length, buf.Len()-4)
	}

	got, err := ReadEnvelope(&buf)
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	var ack AckMessage
	if err := got.Decode(&ack); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Type != TypeAck || ack.Status != "ok" {
		t.Errorf("got %s %+v, want ack ok", got.Type, ack)
	}
}

func TestReadEnvelopeRejectsLength(t *testing.T) {
	tests := []struct {
		name   string
		length uint32
	}{
		{"zero", 0},
		{"oversized", MaxMessageSize + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			binary.Write(&buf, binary.LittleEndian, tt.length)
			_, err := ReadEnvelope(&buf)
			if !errors.Is(err, ErrMessageSize) {
				t.Errorf("ReadEnvelope error = %v, want ErrMessageSize", err)
			}
		})
	}
}

func TestHelloFlattensGameInfo(t *testing.T) {
	env, err := NewEnvelope(TypeHello, HelloMessage{
		Player:     "swarm",
		GameInfo:   model.GameInfo{MapWidth: 64, MapHeight: 32, EnemyRace: model.Terran},
		BuildOrder: "POOL_FIRST",
	})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if !bytes.Contains(env.Data, []byte(`"mapWidth":64`)) {
		t.Errorf("hello payload %s lacks top-level mapWidth", env.Data)
	}
	var hello HelloMessage
	if err := env.Decode(&hello); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if hello.MapHeight != 32 || hello.EnemyRace != model.Terran || hello.BuildOrder != "POOL_FIRST" {
		t.Errorf("decoded hello = %+v", hello)
	}
}

func TestEncode(t *testing.T) {
	pos := model.Position{X: 3, Y: 4}
	tests := []struct {
		name   string
		action model.Action
		want   []Action
	}{
		{
			name:   "move",
			action: model.Move{Target: pos},
			want:   []Action{{Tag: 7, Kind: KindMove, Position: &pos}},
		},
		{
			name:   "ability on unit",
			action: model.AbilityOn(model.AbilityInjectLarva, 9),
			want:   []Action{{Tag: 7, Kind: KindAbility, Ability: model.AbilityInjectLarva, TargetTag: 9}},
		},
		{
			name:   "plain gather",
			action: model.GatherAction{Resource: 11, MiningPosition: pos},
			want:   []Action{{Tag: 7, Kind: KindSmart, TargetTag: 11}},
		},
		{
			name:   "staged gather",
			action: model.GatherAction{Resource: 11, MiningPosition: pos, Stage: true},
			want: []Action{
				{Tag: 7, Kind: KindMove, Position: &pos},
				{Tag: 7, Kind: KindSmart, TargetTag: 11, Queue: true},
			},
		},
		{
			name:   "staged return",
			action: model.ReturnResource{Townhall: 2, Approach: pos, Stage: true},
			want: []Action{
				{Tag: 7, Kind: KindMove, Position: &pos},
				{Tag: 7, Kind: KindSmart, TargetTag: 2, Queue: true},
			},
		},
		{
			name:   "hold",
			action: model.HoldPosition{},
			want:   []Action{{Tag: 7, Kind: KindHold}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(7, tt.action)
			if len(got) != len(tt.want) {
				t.Fatalf("Encode = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if !sameAction(got[i], tt.want[i]) {
					t.Errorf("Encode[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func sameAction(a, b Action) bool {
	if (a.Position == nil) != (b.Position == nil) {
		return false
	}
	if a.Position != nil && *a.Position != *b.Position {
		return false
	}
	a.Position, b.Position = nil, nil
	return a == b
}

func TestEncodeActionsSortsByTag(t *testing.T) {
	got := EncodeActions(map[model.Tag]model.Action{
		30: model.HoldPosition{},
		10: model.Attack{Target: 5},
		20: model.GatherAction{Resource: 4, Stage: true},
	})
	var tags []model.Tag
	for _, a := range got {
		tags = append(tags, a.Tag)
	}
	want := []model.Tag{10, 20, 20, 30}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags = %v, want %v", tags, want)
			break
		}
	}
	if !got[2].Queue {
		t.Errorf("second gather command not queued")
	}
}

func TestReadLoopDispatches(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	c := NewConnection(server, nil)
	c.RegisterHandler(TypeHello, func(env Envelope) (*Envelope, error) {
		var hello HelloMessage
		if err := env.Decode(&hello); err != nil {
			return nil, err
		}
		c.Player = hello.Player
		ack, err := NewEnvelope(TypeAck, AckMessage{Status: "ok"})
		return &ack, err
	})
	done := make(chan struct{})
	go func() {
		c.ReadLoop()
		close(done)
	}()

	client.SetDeadline(time.Now().Add(5 * time.Second))
	unknown, _ := NewEnvelope("bogus", struct{}{})
	if err := WriteEnvelope(client, unknown); err != nil {
		t.Fatalf("write bogus: %v", err)
	}
	hello, _ := NewEnvelope(TypeHello, HelloMessage{Player: "swarm"})
	if err := WriteEnvelope(client, hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	resp, err := ReadEnvelope(client)
	if err != nil {
		t.Fatalf("read ack: %v", err)
	}
	if resp.Type != TypeAck {
		t.Errorf("response type = %q, want %q", resp.Type, TypeAck)
	}

	client.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ReadLoop did not return after close")
	}
	if c.Player != "swarm" {
		t.Errorf("Player = %q, want swarm", c.Player)
	}
}

func TestWriteSchema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schema", "protocol.json")
	if err := WriteSchema(out); err != nil {
		t.Fatalf("WriteSchema: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	for _, field := range []string{`"hello"`, `"observation"`, `"gameLoop"`, `"target_tag"`} {
		if !bytes.Contains(data, []byte(field)) {
			t.Errorf("schema lacks %s", field)
		}
	}
}
