package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"codedigest/internal/config"
	"codedigest/internal/filemap"
)

func fixtureMap() *filemap.FileMap {
	return filemap.New("webapp-main", map[string][]byte{
		"src/app.ts": []byte(`
import { helper } from './util'
import { Button } from '@/components/Button'
export function start() {}
`),
		"src/util.ts": []byte(`
export function helper() {}
export const VERSION = '1.0'
`),
		"src/components/Button.tsx": []byte(`
import { helper } from '../util'
export class Button {}
`),
		"src/routes/users.js": []byte(`
const router = express.Router()
router.get('/users/:id', show)
router.post('/users', create)
`),
		"api/items/[id].ts": []byte(`
export default function handler(req, res) {}
`),
		"server/main.py": []byte(`
import helpers

def run():
    pass
`),
		"helpers.py": []byte(`
def format_date(d):
    return d
`),
		"README.md":           []byte("# webapp"),
		".git/HEAD":           []byte("ref: refs/heads/main"),
		"node_modules/x/i.js": []byte("module.exports = {}"),
	})
}

func TestRunEndToEnd(t *testing.T) {
	res, err := Run(context.Background(), fixtureMap(), config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Ignored files never appear anywhere.
	for _, frag := range []string{".git", "node_modules"} {
		if strings.Contains(res.Tree, frag) {
			t.Fatalf("tree leaks ignored fragment %s:\n%s", frag, res.Tree)
		}
	}
	// Admitted files appear in the tree exactly once.
	for _, leaf := range []string{"app.ts", "util.ts", "README.md", "main.py"} {
		if n := strings.Count(res.Tree, leaf); n != 1 {
			t.Fatalf("%s appears %d times in tree", leaf, n)
		}
	}

	// util.ts is imported relatively by app.ts and Button.tsx.
	util, ok := res.Graph.Node("src/util.ts")
	if !ok {
		t.Fatal("src/util.ts missing from graph")
	}
	if util.InDegree() != 2 {
		t.Fatalf("util InDegree=%d want 2 (%v)", util.InDegree(), util.ImportedBy())
	}

	// The alias specifier resolves by containment.
	app, _ := res.Graph.Node("src/app.ts")
	found := false
	for _, dep := range app.Imports() {
		if dep == "src/components/Button.tsx" {
			found = true
		}
	}
	if !found {
		t.Fatalf("alias import unresolved; app imports %v", app.Imports())
	}

	// Python import resolves root-relative.
	py, _ := res.Graph.Node("server/main.py")
	if len(py.Imports()) != 1 || py.Imports()[0] != "helpers.py" {
		t.Fatalf("python imports %v", py.Imports())
	}

	// Symmetry holds across the whole graph.
	for _, n := range res.Graph.Nodes() {
		for _, dep := range n.Imports() {
			target, ok := res.Graph.Node(dep)
			if !ok {
				t.Fatalf("dangling edge %s -> %s", n.ID, dep)
			}
			back := false
			for _, in := range target.ImportedBy() {
				if in == n.ID {
					back = true
				}
			}
			if !back {
				t.Fatalf("edge %s -> %s not mirrored", n.ID, dep)
			}
		}
	}

	// Route detection across both conventions.
	if len(res.Surface.Endpoints) != 3 {
		t.Fatalf("endpoints=%v want 3", res.Surface.Endpoints)
	}
	methods := map[string]int{}
	for _, ep := range res.Surface.Endpoints {
		methods[ep.Method]++
	}
	if methods["GET"] != 1 || methods["POST"] != 1 || methods["ANY"] != 1 {
		t.Fatalf("method split %v", methods)
	}

	if res.Digest.ModuleCount != res.Graph.Len() {
		t.Fatalf("digest module count %d vs graph %d", res.Digest.ModuleCount, res.Graph.Len())
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func() (string, string, string) {
		res, err := Run(context.Background(), fixtureMap(), config.Default())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		g, err := json.Marshal(res.Graph)
		if err != nil {
			t.Fatalf("marshal graph: %v", err)
		}
		s, err := json.Marshal(res.Surface)
		if err != nil {
			t.Fatalf("marshal surface: %v", err)
		}
		d, err := json.Marshal(res.Digest)
		if err != nil {
			t.Fatalf("marshal digest: %v", err)
		}
		return string(g), string(s), string(d)
	}

	g1, s1, d1 := run()
	for i := 0; i < 5; i++ {
		g2, s2, d2 := run()
		if g1 != g2 || s1 != s2 || d1 != d2 {
			t.Fatal("identical FileMaps must produce byte-identical outputs")
		}
	}
}

func TestRunOversizedSkipped(t *testing.T) {
	big := strings.Repeat("x", 128)
	fm := filemap.New("r", map[string][]byte{
		"small.ts": []byte("export const a = 1"),
		"huge.ts":  []byte("export const b = '" + big + "'"),
	})
	cfg := config.Default()
	cfg.MaxFileSize = 64
	res, err := Run(context.Background(), fm, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "huge.ts" {
		t.Fatalf("Skipped=%v want [huge.ts]", res.Skipped)
	}
	// The run degrades to a sparser surface rather than failing.
	if len(res.Surface.Libraries) != 1 {
		t.Fatalf("libraries=%v", res.Surface.Libraries)
	}
}

func TestStartAndWait(t *testing.T) {
	j := Start(context.Background(), fixtureMap(), config.Default())
	if j.ID == "" {
		t.Fatal("job must carry an id")
	}
	res, err := j.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if res == nil || res.Digest == nil {
		t.Fatal("completed job must expose a result")
	}
	select {
	case <-j.Done():
	default:
		t.Fatal("Done channel must be closed after Wait returns")
	}
	got, err := j.Result()
	if err != nil || got != res {
		t.Fatal("Result must match what Wait returned")
	}
}

func TestWaitCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j := Start(ctx, fixtureMap(), config.Default())
	waitCtx, waitCancel := context.WithCancel(context.Background())
	waitCancel()
	if _, err := j.Wait(waitCtx); err == nil {
		// The job itself may still have finished first; accept either a
		// cancellation error or a run aborted by its context.
		res, runErr := j.Wait(context.Background())
		if runErr == nil && res != nil {
			t.Fatal("cancelled run should not produce a result")
		}
	}
}
