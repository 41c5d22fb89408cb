package buttons

import "testing"

func frameFor(cmd uint16, subState, index, raw byte) []byte {
	buf := make([]byte, 16)
	buf[0] = 0x7C
	buf[1] = 0x7C
	buf[2] = byte(cmd >> 8)
	buf[3] = byte(cmd)
	buf[8] = subState
	buf[9] = index
	buf[11] = raw
	return buf
}

func TestDecode_NonStatusButton(t *testing.T) {
	d := NewDecoder()
	res := d.Decode(frameFor(0x0101, 0, 2, 0x01))
	if !res.Recognized || !res.HasEdge {
		t.Fatal("expected a recognized frame with an edge for a valid button frame")
	}
	if res.Edge.Index != 2 || !res.Edge.Pressed {
		t.Errorf("edge = %+v, want {Index:2 Pressed:true}", res.Edge)
	}

	res = d.Decode(frameFor(0x0101, 0, 2, 0x00))
	if !res.HasEdge || res.Edge.Pressed {
		t.Errorf("edge = %+v hasEdge=%v, want released", res.Edge, res.HasEdge)
	}
}

func TestDecode_RejectsWrongHeader(t *testing.T) {
	d := NewDecoder()
	buf := frameFor(0x0101, 0, 2, 0x01)
	buf[0] = 0x00
	if res := d.Decode(buf); res.Recognized {
		t.Error("expected decode to reject frame without valid header")
	}
}

func TestDecode_RejectsUnknownCommand(t *testing.T) {
	d := NewDecoder()
	if res := d.Decode(frameFor(0x0303, 0, 2, 0x01)); res.Recognized {
		t.Error("expected decode to ignore non-button-event command ids")
	}
}

func TestDecode_StatusButtonAlternates(t *testing.T) {
	d := NewDecoder()

	res := d.Decode(frameFor(0x0101, 0, StatusIndex, 0x01))
	if !res.HasEdge || !res.Edge.Pressed || res.Edge.Index != StatusIndex {
		t.Fatalf("first 0x01 should emit pressed: %+v", res)
	}

	res = d.Decode(frameFor(0x0101, 0, StatusIndex, 0x01))
	if !res.HasEdge || res.Edge.Pressed {
		t.Fatalf("second 0x01 should emit released: %+v", res)
	}

	// Subsequent identical frames keep alternating.
	res = d.Decode(frameFor(0x0101, 0, StatusIndex, 0x01))
	if !res.HasEdge || !res.Edge.Pressed {
		t.Fatalf("third 0x01 should emit pressed again: %+v", res)
	}
}

func TestDecode_StatusButtonIgnoresOtherValues(t *testing.T) {
	d := NewDecoder()
	res := d.Decode(frameFor(0x0101, 0, StatusIndex, 0x02))
	if res.HasEdge {
		t.Error("expected no edge for non-0x01 status tile raw value")
	}
	if !res.Recognized {
		t.Error("expected the frame to still be recognized")
	}
}

func TestDecode_ModeFromSubState(t *testing.T) {
	d := NewDecoder()
	res := d.Decode(frameFor(0x0101, 1, 0, 0x00))
	if res.Mode != ModeClock {
		t.Errorf("mode = %v, want ModeClock", res.Mode)
	}
}

func TestDecode_RejectsOutOfRangeIndex(t *testing.T) {
	d := NewDecoder()
	res := d.Decode(frameFor(0x0101, 0, 200, 0x01))
	if res.HasEdge {
		t.Error("expected no edge for out-of-range button index")
	}
	if !res.Recognized {
		t.Error("expected the frame to still be recognized (mode-only)")
	}
}
