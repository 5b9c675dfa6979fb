package stages

import (
	json "github.com/goccy/go-json"
)

// Snapshot is the traceable view of a State: fractions and amounts as
// strings, categories by key.
type Snapshot struct {
	Net            string              `json:"net"`
	BequestApplied string              `json:"bequest_applied"`
	Blocked        map[string][]string `json:"blocked"`
	Fixed          map[string]string   `json:"fixed"`
	Residuary      map[string]string   `json:"residuary"`
	Residue        string              `json:"residue"`
	Unclaimed      string              `json:"unclaimed"`
	Aul            bool                `json:"aul"`
	Radd           bool                `json:"radd"`
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Net:            s.Net.StringFixed(2),
		BequestApplied: s.BequestApplied.StringFixed(2),
		Blocked:        make(map[string][]string, len(s.Blocked)),
		Fixed:          make(map[string]string, len(s.Fixed)),
		Residuary:      make(map[string]string, len(s.Residuary)),
		Residue:        s.Residue.String(),
		Unclaimed:      s.Unclaimed.String(),
		Aul:            s.AulApplied,
		Radd:           s.RaddApplied,
	}
	for c, by := range s.Blocked {
		keys := make([]string, len(by))
		for i, b := range by {
			keys[i] = b.String()
		}
		snap.Blocked[c.String()] = keys
	}
	for _, sh := range s.Fixed {
		snap.Fixed[sh.Category.String()] = sh.Frac.String()
	}
	for _, sh := range s.Residuary {
		snap.Residuary[sh.Category.String()] = sh.Frac.String()
	}
	return snap
}

// Document returns the snapshot decoded into plain JSON values, ready for
// diffing.
func (s *State) Document() (any, error) {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
