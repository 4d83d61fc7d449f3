package event

import "testing"

func TestNew(t *testing.T) {
	evt := New(TypeProcessCreated, "p-1", map[string]interface{}{"actor": "john", "count": 2})

	if evt.ID == "" {
		t.Error("New() produced an event without an ID")
	}
	if evt.Type != TypeProcessCreated {
		t.Errorf("Type = %s, want %s", evt.Type, TypeProcessCreated)
	}
	if evt.InstanceID != "p-1" {
		t.Errorf("InstanceID = %s, want p-1", evt.InstanceID)
	}
	if evt.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}

	if got := evt.GetPayloadString("actor"); got != "john" {
		t.Errorf("GetPayloadString(actor) = %s, want john", got)
	}
	if got := evt.GetPayloadString("count"); got != "" {
		t.Errorf("GetPayloadString(count) = %s, want empty for non-string", got)
	}
	if got := evt.GetPayloadString("missing"); got != "" {
		t.Errorf("GetPayloadString(missing) = %s, want empty", got)
	}
}

func TestType_IsValid(t *testing.T) {
	valid := []Type{
		TypeProcessCreated,
		TypeProcessAdvanced,
		TypeProcessCompleted,
		TypeProcessRejected,
		TypeProcessReassigned,
		TypeStatusOverridden,
	}
	for _, typ := range valid {
		if !typ.IsValid() {
			t.Errorf("IsValid(%s) = false, want true", typ)
		}
	}
	if Type("process.unknown").IsValid() {
		t.Error("IsValid(process.unknown) = true, want false")
	}
}
