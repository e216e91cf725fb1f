package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/pokerus/internal/game/dice"
	"github.com/cory-johannsen/pokerus/internal/scripting"
)

func newTestManager(t testing.TB, limit int) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), logger)
	mgr := scripting.NewManager(roller, logger, limit)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeLua(t testing.TB, dir, filename, src string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func loadStrategy(t testing.TB, mgr *scripting.Manager, name, src string) {
	t.Helper()
	path := writeLua(t, t.TempDir(), name+".lua", src)
	require.NoError(t, mgr.LoadStrategy(name, path))
}

func sampleInfo(moves int) scripting.CombatantInfo {
	info := scripting.CombatantInfo{UID: "a", Name: "Cinder", Affinity: "fire", HP: 39, Level: 5}
	for i := 0; i < moves; i++ {
		info.Moves = append(info.Moves, scripting.MoveInfo{ID: "m", Name: "M", Affinity: "fire", Power: 40, Attack: true})
	}
	return info
}

func TestManager_LoadStrategy_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	loadStrategy(t, mgr, "adder", `
		function test_hook(a, b)
			return a + b
		end
	`)
	assert.True(t, mgr.Has("adder"))
	ret, err := mgr.CallHook("adder", "test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_LoadStrategy_Errors(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	assert.Error(t, mgr.LoadStrategy("", "x.lua"))
	assert.Error(t, mgr.LoadStrategy("missing", filepath.Join(t.TempDir(), "nope.lua")))

	path := writeLua(t, t.TempDir(), "broken.lua", `function (`)
	assert.Error(t, mgr.LoadStrategy("broken", path))
	assert.False(t, mgr.Has("broken"))
}

func TestManager_LoadDir(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "zeta.lua", `function choose_move(self, foe) return 1 end`)
	writeLua(t, dir, "alpha.lua", `function choose_move(self, foe) return 2 end`)
	writeLua(t, dir, "notes.txt", `ignored`)

	names, err := mgr.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)

	_, err = mgr.LoadDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	loadStrategy(t, mgr, "empty", `-- no functions`)
	ret, err := mgr.CallHook("empty", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_UnknownStrategy_LogsInfoReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	ret, err := mgr.CallHook("no_such_strategy", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("scripting: no VM for strategy").Len())
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	loadStrategy(t, mgr, "bad", `
		function bad_hook()
			error("intentional error")
		end
	`)
	ret, err := mgr.CallHook("bad", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestManager_CallHook_BudgetResetsPerCall(t *testing.T) {
	mgr, _ := newTestManager(t, 500)
	loadStrategy(t, mgr, "loop", `
		function short()
			local n = 0
			for i = 1, 20 do n = n + i end
			return n
		end
		function forever()
			while true do end
		end
	`)
	for i := 0; i < 50; i++ {
		ret, err := mgr.CallHook("loop", "short")
		require.NoError(t, err)
		assert.Equal(t, lua.LNumber(210), ret, "call %d must get a fresh budget", i)
	}
	ret, err := mgr.CallHook("loop", "forever")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)

	ret, err = mgr.CallHook("loop", "short")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(210), ret, "VM recovers after an exhausted budget")
}

func TestManager_ChooseMove(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	loadStrategy(t, mgr, "last", `
		function choose_move(self, foe)
			assert(self.name == "Cinder")
			assert(foe.hp == 39)
			return #self.moves
		end
	`)
	idx, ok := mgr.ChooseMove("last", sampleInfo(3), sampleInfo(1))
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestManager_ChooseMove_Invalid(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	loadStrategy(t, mgr, "zero", `function choose_move(self, foe) return 0 end`)
	loadStrategy(t, mgr, "frac", `function choose_move(self, foe) return 1.5 end`)
	loadStrategy(t, mgr, "word", `function choose_move(self, foe) return "first" end`)
	loadStrategy(t, mgr, "none", `-- no hook`)

	for _, name := range []string{"zero", "frac", "word", "none", "unloaded"} {
		_, ok := mgr.ChooseMove(name, sampleInfo(2), sampleInfo(2))
		assert.False(t, ok, "strategy %s", name)
	}
	assert.Equal(t, 2, logs.FilterMessage("scripting: choose_move returned invalid index").Len())
}

func TestManager_ChooseMove_Property_InRange(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	loadStrategy(t, mgr, "echo", `
		function choose_move(self, foe)
			return foe.level
		end
	`)
	rapid.Check(t, func(rt *rapid.T) {
		moves := rapid.IntRange(1, 4).Draw(rt, "moves")
		pick := rapid.IntRange(-2, 6).Draw(rt, "pick")
		foe := sampleInfo(1)
		foe.Level = pick
		idx, ok := mgr.ChooseMove("echo", sampleInfo(moves), foe)
		if pick >= 1 && pick <= moves {
			assert.True(rt, ok)
			assert.Equal(rt, pick-1, idx)
		} else {
			assert.False(rt, ok)
		}
	})
}

func TestManager_ConcurrentCalls(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	loadStrategy(t, mgr, "first", `function choose_move(self, foe) return 1 end`)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx, ok := mgr.ChooseMove("first", sampleInfo(2), sampleInfo(2))
			assert.True(t, ok)
			assert.Equal(t, 0, idx)
		}()
	}
	wg.Wait()
}
