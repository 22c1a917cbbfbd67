// Package cheats implements GameGenie and GameShark codes. Game
// Genie codes patch ROM reads through the MMU, GameShark codes
// are written to RAM at the end of every frame.
package cheats

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Cheat is a named group of codes, toggled together.
type Cheat struct {
	Name    string
	Enabled bool

	genie []GameGenie
	shark []GameShark
	codes []string
}

// Codes returns the codes of the cheat as written.
func (c *Cheat) Codes() []string {
	return c.codes
}

// add parses code as a GameGenie code if it has hyphens, and a
// GameShark code otherwise.
func (c *Cheat) add(code string) error {
	if strings.Contains(code, "-") {
		g, err := ParseGameGenie(code)
		if err != nil {
			return err
		}
		c.genie = append(c.genie, g)
	} else {
		g, err := ParseGameShark(code)
		if err != nil {
			return err
		}
		c.shark = append(c.shark, g)
	}
	c.codes = append(c.codes, code)
	return nil
}

// Writer is the bus GameShark codes are written through.
type Writer interface {
	Write(address uint16, value uint8)
}

// Set is a list of cheats.
type Set struct {
	Cheats []*Cheat
}

// Add adds an enabled cheat built from codes.
func (s *Set) Add(name string, codes ...string) error {
	c := &Cheat{Name: name, Enabled: true}
	for _, code := range codes {
		if err := c.add(code); err != nil {
			return err
		}
	}
	s.Cheats = append(s.Cheats, c)
	return nil
}

// Enable enables or disables the cheat with the given name.
func (s *Set) Enable(name string, enabled bool) error {
	for _, c := range s.Cheats {
		if c.Name == name {
			c.Enabled = enabled
			return nil
		}
	}
	return fmt.Errorf("cheats: no cheat named %q", name)
}

// Patch applies the enabled GameGenie codes to a ROM read.
func (s *Set) Patch(address uint16, value uint8) uint8 {
	for _, c := range s.Cheats {
		if !c.Enabled {
			continue
		}
		for _, g := range c.genie {
			if g.matches(address, value) {
				return g.NewData
			}
		}
	}
	return value
}

// Apply writes the enabled GameShark codes through w. Writes to
// external RAM go to the bank currently mapped.
func (s *Set) Apply(w Writer) {
	for _, c := range s.Cheats {
		if !c.Enabled {
			continue
		}
		for _, g := range c.shark {
			w.Write(g.Address, g.NewData)
		}
	}
}

// Parse reads a cheat file. The file format is as follows:
//
//	# Cheat Name
//	ABC-DEF-GHI
//	01FF30C1
//
// Cheat files may have any number of GameGenie and GameShark
// codes, and may be mixed together. Blank lines are skipped,
// every cheat starts enabled.
func Parse(r io.Reader) (*Set, error) {
	s := &Set{}
	var current *Cheat

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "":
			continue
		case text[0] == '#':
			current = &Cheat{Name: strings.TrimSpace(text[1:]), Enabled: true}
			s.Cheats = append(s.Cheats, current)
		case current == nil:
			return nil, fmt.Errorf("cheats: line %d: code before a cheat name", line)
		default:
			if err := current.add(text); err != nil {
				return nil, fmt.Errorf("cheats: line %d: %w", line, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return s, nil
}

// Write writes s in the format read by Parse.
func (s *Set) Write(w io.Writer) error {
	for _, c := range s.Cheats {
		if _, err := fmt.Fprintf(w, "# %s\n", c.Name); err != nil {
			return err
		}
		for _, code := range c.codes {
			if _, err := fmt.Fprintln(w, code); err != nil {
				return err
			}
		}
	}
	return nil
}
