package cheats

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseGameGenie(t *testing.T) {
	// 00A-17B-C49: write 0x00 to 0x4A17 when it holds 0xC8
	g, err := ParseGameGenie("00A-17B-C49")
	if err != nil {
		t.Fatal(err)
	}
	if g.NewData != 0x00 || g.Address != 0x4A17 || !g.Compare {
		t.Errorf("unexpected code %+v", g)
	}
	// rotr2(0xC9) ^ 0xBA
	if g.OldData != 0x72^0xBA {
		t.Errorf("expected old data 0x%02X, got 0x%02X", 0x72^0xBA, g.OldData)
	}

	if got := g.Patch(0x4A17, g.OldData); got != 0x00 {
		t.Errorf("expected patched read 0x00, got 0x%02X", got)
	}
	if got := g.Patch(0x4A17, 0x12); got != 0x12 {
		t.Errorf("expected unpatched read 0x12 on mismatch, got 0x%02X", got)
	}
	if got := g.Patch(0x4A18, g.OldData); got != g.OldData {
		t.Errorf("expected other addresses unpatched, got 0x%02X", got)
	}

	short, err := ParseGameGenie("3EA-17B")
	if err != nil {
		t.Fatal(err)
	}
	if short.Compare || short.Patch(0x4A17, 0x99) != 0x3E {
		t.Errorf("expected unconditional patch, got %+v", short)
	}

	for _, bad := range []string{"0ZA-17B-C49", "00A-170", "00A-17B-C4"} {
		if _, err := ParseGameGenie(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestParseGameShark(t *testing.T) {
	g, err := ParseGameShark("01FF30C1")
	if err != nil {
		t.Fatal(err)
	}
	if g.Type != 0x01 || g.NewData != 0xFF || g.Address != 0xC130 {
		t.Errorf("unexpected code %+v", g)
	}

	for _, bad := range []string{"01FF30C", "01FF3XC1", "01FF0040"} {
		if _, err := ParseGameShark(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

type memory map[uint16]uint8

func (m memory) Write(address uint16, value uint8) { m[address] = value }

func TestSet(t *testing.T) {
	const file = `# Infinite lives
01099AC0

# Skip intro
3EA-17B
`
	s, err := Parse(strings.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Cheats) != 2 || s.Cheats[0].Name != "Infinite lives" {
		t.Fatalf("unexpected cheats %+v", s.Cheats)
	}

	m := memory{}
	s.Apply(m)
	if m[0xC09A] != 0x09 {
		t.Errorf("expected 0x09 written to 0xC09A, got %v", m)
	}
	if got := s.Patch(0x4A17, 0x00); got != 0x3E {
		t.Errorf("expected patched read 0x3E, got 0x%02X", got)
	}

	if err := s.Enable("Skip intro", false); err != nil {
		t.Fatal(err)
	}
	if got := s.Patch(0x4A17, 0x00); got != 0x00 {
		t.Errorf("expected disabled cheat to leave 0x00, got 0x%02X", got)
	}
	if err := s.Enable("missing", true); err == nil {
		t.Error("expected an error enabling a missing cheat")
	}

	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatal(err)
	}
	again, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Cheats) != 2 || again.Cheats[1].Codes()[0] != "3EA-17B" {
		t.Errorf("unexpected cheats after writing %+v", again.Cheats)
	}

	if _, err := Parse(strings.NewReader("01099AC0\n")); err == nil {
		t.Error("expected a code without a name to be rejected")
	}
}
