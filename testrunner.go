package arscene

import (
	"encoding/json"
	"fmt"

	"cogentcore.org/core/math32"
)

// testStep represents a single action in a replay script.
type testStep struct {
	Action string    `json:"action"`
	Label  string    `json:"label,omitempty"`
	ID     ObjectID  `json:"id,omitempty"`
	Event  EventKind `json:"event,omitempty"`
	Origin []float32 `json:"origin,omitempty"`
	Dir    []float32 `json:"dir,omitempty"`
	X      float32   `json:"x,omitempty"`
	Y      float32   `json:"y,omitempty"`
	Z      float32   `json:"z,omitempty"`
	Frames int       `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a replay script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownSteps = map[string]bool{
	"wait": true, "advance": true, "select": true,
	"dispatch": true, "viewer": true, "snapshot": true,
}

// TestRunner sequences injected selections, dispatches, viewer moves and
// snapshots across frames for deterministic replay. Attach to an Engine
// via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	settled   bool
	done      bool
}

// LoadTestScript parses a JSON replay script and returns a TestRunner
// ready to be attached to an Engine via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownSteps[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "select" && (len(st.Origin) != 3 || len(st.Dir) != 3) {
			return nil, fmt.Errorf("parse test script: step %d: select needs 3-component origin and dir", i)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the engine. The runner's step
// method is called from Engine.Update after loads are polled.
func (e *Engine) SetTestRunner(runner *TestRunner) {
	e.testRunner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Engine.Update.
func (r *TestRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Wait for pending loads and injections, then one more frame so new
	// objects have resolved visibility before they are selected.
	if !e.spawner.Done() || len(e.injectQueue) > 0 {
		r.settled = false
		return
	}
	if !r.settled {
		r.settled = true
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "snapshot":
		e.QueueSnapshot(st.Label)
	case "select":
		event := st.Event
		if event == 0 {
			event = EventTouch
		}
		ray := RayFrom(vec3Of(st.Origin), vec3Of(st.Dir))
		e.InjectSelect(ray, event)
	case "dispatch":
		event := st.Event
		if event == 0 {
			event = EventTouch
		}
		e.interp.Dispatch(st.ID, event)
	case "viewer":
		e.SetViewer(math32.Vec3(st.X, st.Y, st.Z))
	case "wait", "advance": // advance is an alias of wait
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}

func vec3Of(xs []float32) math32.Vector3 {
	return math32.Vec3(xs[0], xs[1], xs[2])
}
