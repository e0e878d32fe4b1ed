package form

import "strings"

type Option[ID ~string] struct {
	ID       ID     `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Options is a closed set of selectable values.
type Options[ID ~string] []Option[ID]

// Select maps a raw value onto the set. Values outside the set and
// disabled options are rejected.
func (o Options[ID]) Select(raw string) (ID, bool) {
	for _, opt := range o {
		if string(opt.ID) == raw {
			if opt.Disabled {
				return "", false
			}
			return opt.ID, true
		}
	}
	return "", false
}

func (o Options[ID]) Label(id ID) (string, bool) {
	for _, opt := range o {
		if opt.ID == id {
			return opt.Label, true
		}
	}
	return "", false
}

// Enabled returns the options that can be chosen.
func (o Options[ID]) Enabled() Options[ID] {
	out := make(Options[ID], 0, len(o))
	for _, opt := range o {
		if !opt.Disabled {
			out = append(out, opt)
		}
	}
	return out
}

// DisableWhenLabelContains marks options whose label contains marker as disabled.
func (o Options[ID]) DisableWhenLabelContains(marker string) Options[ID] {
	out := make(Options[ID], len(o))
	for i, opt := range o {
		if marker != "" && strings.Contains(opt.Label, marker) {
			opt.Disabled = true
		}
		out[i] = opt
	}
	return out
}
