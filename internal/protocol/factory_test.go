package protocol

import (
	"strings"
	"testing"

	"mesh_flood/internal/dataType"
)

func TestCreateMessage_Defaults(t *testing.T) {
	n := newTestNode(t, "A", testParams())

	beacon := n.CreateMessage(dataType.KindBeacon, 12)
	if beacon.TTL != 1 || string(beacon.Payload) != BeaconMarker {
		t.Errorf("Unexpected beacon %v payload=%q", beacon, beacon.Payload)
	}
	if len(beacon.Path) != 0 {
		t.Errorf("Expected empty path before send, got %v", beacon.Path)
	}
	if beacon.Source != "A" || beacon.Timestamp != 12 || beacon.HopCount != 0 || beacon.Reliability != 1.0 {
		t.Errorf("Unexpected defaults %+v", beacon)
	}

	hb := n.CreateMessage(dataType.KindHeartbeat, 3)
	if hb.TTL != 3 {
		t.Errorf("Expected heartbeat ttl = max ttl, got %d", hb.TTL)
	}
	if !strings.Contains(string(hb.Payload), "A") {
		t.Errorf("Expected heartbeat payload to carry sender id, got %q", hb.Payload)
	}
	if hb.Priority != 0 || hb.HasDeadline() {
		t.Errorf("Expected heartbeat priority 0 and no deadline")
	}
}

func TestCreateMessage_Data(t *testing.T) {
	n := newTestNode(t, "A", testParams())
	priorities := map[int]bool{}
	for i := 0; i < 300; i++ {
		m := n.CreateMessage(dataType.KindData, 100)
		if m.DataSize < 50 || m.DataSize > 200 || len(m.Payload) != m.DataSize {
			t.Fatalf("Data size %d (payload %d) outside [50,200]", m.DataSize, len(m.Payload))
		}
		if m.Priority < 0 || m.Priority > 2 {
			t.Fatalf("Priority %d outside {0,1,2}", m.Priority)
		}
		priorities[m.Priority] = true
		if m.Priority > 0 && m.Deadline != 130 {
			t.Errorf("Expected deadline 130, got %v", m.Deadline)
		}
		if m.Priority == 0 && m.Deadline != 0 {
			t.Errorf("Expected no deadline for priority 0, got %v", m.Deadline)
		}
	}
	if len(priorities) != 3 {
		t.Errorf("Expected all priorities to occur, got %v", priorities)
	}
}

func TestCreateMessage_SequenceStrictlyIncreasing(t *testing.T) {
	n := newTestNode(t, "A", testParams())
	kinds := []dataType.Kind{dataType.KindBeacon, dataType.KindData, dataType.KindHeartbeat, dataType.KindControl, dataType.KindAdvertisement}
	var last int64
	for i := 0; i < 100; i++ {
		m := n.CreateMessage(kinds[i%len(kinds)], dataType.SimTime(i))
		if m.Sequence <= last {
			t.Fatalf("Sequence %d not greater than %d", m.Sequence, last)
		}
		last = m.Sequence
	}
	if last != 100 {
		t.Errorf("Expected first sequence 1 and no gaps, last=%d", last)
	}
}

func TestCreateMessage_Advertisement(t *testing.T) {
	n := newTestNode(t, "A", testParams())
	n.OnMessageArrival(&dataType.ProtocolMessage{Kind: dataType.KindData, Source: "C", Sequence: 1, TTL: 1, HopCount: 2}, 0)
	n.OnMessageArrival(&dataType.ProtocolMessage{Kind: dataType.KindData, Source: "B", Sequence: 1, TTL: 1}, 0)

	adv := n.CreateMessage(dataType.KindAdvertisement, 1)
	if got := string(adv.Payload); got != "B:0,C:2" {
		t.Errorf("Expected advertisement payload %q, got %q", "B:0,C:2", got)
	}
}

func TestOriginate_StampsPath(t *testing.T) {
	n := newTestNode(t, "A", testParams())
	if _, err := n.Originate(dataType.Kind(99), 0); err == nil {
		t.Error("Expected error for unknown kind")
	}
	msg, err := n.Originate(dataType.KindControl, 0)
	if err != nil {
		t.Fatalf("Originate: %v", err)
	}
	if len(msg.Path) != 1 || msg.Path[0] != "A" || msg.IsRelay {
		t.Errorf("Unexpected originated message %v", msg)
	}
}
