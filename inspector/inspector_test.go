package inspector

import (
	"testing"

	"github.com/pthm-cable/rpsarena/systems"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,max:200", WidgetBar, map[string]string{"max": "200"}},
		{"label,fmt:%.1f,name:Target kind", WidgetLabel, map[string]string{"fmt": "%.1f", "name": "Target kind"}},
		{"skip", WidgetSkip, map[string]string{}},
		{"unknown", WidgetAuto, map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			w, opts := ParseTag(tt.tag)
			if w != tt.widget {
				t.Errorf("widget = %v, want %v", w, tt.widget)
			}
			if len(opts) != len(tt.options) {
				t.Fatalf("options = %v, want %v", opts, tt.options)
			}
			for k, v := range tt.options {
				if opts[k] != v {
					t.Errorf("options[%q] = %q, want %q", k, opts[k], v)
				}
			}
		})
	}
}

func TestExtractFieldsAgentView(t *testing.T) {
	fields := ExtractFields(&AgentView{ID: 3, Kind: "rock", Speed: 0.5})
	if len(fields) != 10 {
		t.Fatalf("got %d fields, want 10 (Color skipped)", len(fields))
	}
	byName := make(map[string]Field)
	for _, f := range fields {
		byName[f.Name] = f
	}
	if _, ok := byName["Color"]; ok {
		t.Error("Color should be skipped")
	}
	if f := byName["Target kind"]; f.Widget != WidgetLabel {
		t.Errorf("Target kind widget = %v", f.Widget)
	}
	if f := byName["Speed"]; f.Widget != WidgetBar || f.Value.(float32) != 0.5 {
		t.Errorf("Speed field = %+v", f)
	}
	if f := byName["X"]; FormatValue(f.Value, f.Options["fmt"]) != "0.0" {
		t.Errorf("X formatted as %q", FormatValue(f.Value, f.Options["fmt"]))
	}
	if ExtractFields(42) != nil {
		t.Error("non-struct should yield no fields")
	}
}

func TestHandleClick(t *testing.T) {
	agents := []systems.AgentState{
		{ID: 0, X: 500, Y: 500},
		{ID: 1, X: 520, Y: 500},
		{ID: 2, X: 700, Y: 700},
	}
	ins := NewInspector(800, 800)

	if ins.HandleClick(600, 600, 600, 600, agents, 10) {
		t.Error("click on empty space was consumed")
	}
	if _, ok := ins.Selected(); ok {
		t.Fatal("nothing should be selected")
	}

	if !ins.HandleClick(512, 500, 512, 500, agents, 10) {
		t.Fatal("click on an agent was not consumed")
	}
	if id, ok := ins.Selected(); !ok || id != 1 {
		t.Errorf("Selected() = %d, %v, want 1", id, ok)
	}

	// Inside the open panel: consumed without changing the selection.
	if !ins.HandleClick(float32(ins.panelX+20), float32(ins.panelY+HeaderHeight+20), 700, 700, agents, 10) {
		t.Error("click inside panel was not consumed")
	}
	if id, _ := ins.Selected(); id != 1 {
		t.Errorf("selection changed to %d", id)
	}

	// Close button.
	ins.HandleClick(float32(ins.panelX+PanelWidth-15), float32(ins.panelY+10), 0, 0, agents, 10)
	if _, ok := ins.Selected(); ok {
		t.Error("close button did not deselect")
	}
}

func TestGetMax(t *testing.T) {
	if GetMax(map[string]string{"max": "2.5"}) != 2.5 {
		t.Error("max option ignored")
	}
	if GetMax(map[string]string{"max": "x"}) != 1 || GetMax(nil) != 1 {
		t.Error("default max should be 1")
	}
}
