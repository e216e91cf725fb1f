package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/pokerus/internal/game/dice"
)

// ChooseMoveHook is the global Lua function a strategy script defines.
// It receives (self, foe) combatant tables and returns a 1-based move index.
const ChooseMoveHook = "choose_move"

// MoveInfo is a snapshot of a known move passed to Lua callbacks.
type MoveInfo struct {
	ID       string
	Name     string
	Affinity string
	Power    int
	Attack   bool
}

// CombatantInfo is a snapshot of a combatant's state passed to Lua callbacks.
type CombatantInfo struct {
	UID      string
	Name     string
	Affinity string
	HP       int
	Level    int
	Moves    []MoveInfo
}

// Manager owns one sandboxed LState per strategy and exposes hook dispatch.
//
// Each LState is single-threaded; mu serializes every call into any VM.
type Manager struct {
	mu      sync.Mutex
	states  map[string]*lua.LState
	cancels map[string]context.CancelFunc
	limit   int
	roller  *dice.Roller
	logger  *zap.Logger

	// Injected after construction. nil = engine.combat.damage returns nil.
	ExpectedDamage func(attackerUID, moveID, defenderUID string) (int, bool)
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil; instLimit >= 0.
// Postcondition: Returns a non-nil Manager with no strategies loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	return &Manager{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]context.CancelFunc),
		limit:   instLimit,
		roller:  roller,
		logger:  logger,
	}
}

// LoadStrategy creates a sandboxed VM named name, registers the engine.*
// modules and executes the script at path. Reloading a name replaces the VM.
//
// Precondition: name must be non-empty; path must be a readable Lua file.
// Postcondition: Returns an error on read or Lua load failure.
func (m *Manager) LoadStrategy(name, path string) error {
	if name == "" {
		return fmt.Errorf("scripting: strategy name must not be empty")
	}
	L, cancel := NewSandboxedState(m.limit)
	m.RegisterModules(L)

	if err := L.DoFile(path); err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: loading %q for strategy %q: %w", path, name, err)
	}

	m.mu.Lock()
	if old, ok := m.states[name]; ok {
		m.cancels[name]()
		old.Close()
	}
	m.states[name] = L
	m.cancels[name] = cancel
	m.mu.Unlock()
	return nil
}

// LoadDir loads every *.lua file in dir as a strategy named after the file
// without its extension, in lexicographic order.
//
// Postcondition: Returns the loaded strategy names or the first error.
func (m *Manager) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".lua"))
	}
	sort.Strings(names)
	for _, name := range names {
		if err := m.LoadStrategy(name, filepath.Join(dir, name+".lua")); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// Has reports whether a strategy named name is loaded.
func (m *Manager) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[name]
	return ok
}

// CallHook calls the named Lua global function in the strategy's VM. Returns
// (LNil, nil) if the strategy or hook is not defined. Lua runtime errors,
// including an exhausted instruction budget, are logged at Warn level and
// never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(strategy, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L, ok := m.states[strategy]
	if !ok {
		m.logger.Info("scripting: no VM for strategy",
			zap.String("strategy", strategy),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}
	return m.callLocked(strategy, L, hook, args...), nil
}

// callLocked runs hook in L with a fresh instruction budget.
//
// Precondition: m.mu is held.
func (m *Manager) callLocked(strategy string, L *lua.LState, hook string, args ...lua.LValue) lua.LValue {
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil
	}

	m.cancels[strategy]()
	m.cancels[strategy] = rearm(L, m.limit)

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("strategy", strategy),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret
}

// ChooseMove asks the strategy which of self's moves to use against foe.
//
// Postcondition: Returns a 0-based index into self.Moves and true, or false
// when the strategy or hook is missing, errors, or returns an out-of-range value.
func (m *Manager) ChooseMove(strategy string, self, foe CombatantInfo) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L, ok := m.states[strategy]
	if !ok {
		return 0, false
	}

	ret := m.callLocked(strategy, L, ChooseMoveHook, combatantTable(L, self), combatantTable(L, foe))
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, false
	}
	idx := int(n) - 1
	if float64(n) != float64(int(n)) || idx < 0 || idx >= len(self.Moves) {
		m.logger.Warn("scripting: choose_move returned invalid index",
			zap.String("strategy", strategy),
			zap.Float64("index", float64(n)),
		)
		return 0, false
	}
	return idx, true
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, L := range m.states {
		m.cancels[name]()
		L.Close()
	}
	m.states = make(map[string]*lua.LState)
	m.cancels = make(map[string]context.CancelFunc)
}

func combatantTable(L *lua.LState, c CombatantInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(c.UID))
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("affinity", lua.LString(c.Affinity))
	t.RawSetString("hp", lua.LNumber(c.HP))
	t.RawSetString("level", lua.LNumber(c.Level))
	moves := L.NewTable()
	for _, mv := range c.Moves {
		mt := L.NewTable()
		mt.RawSetString("id", lua.LString(mv.ID))
		mt.RawSetString("name", lua.LString(mv.Name))
		mt.RawSetString("affinity", lua.LString(mv.Affinity))
		mt.RawSetString("power", lua.LNumber(mv.Power))
		mt.RawSetString("attack", lua.LBool(mv.Attack))
		moves.Append(mt)
	}
	t.RawSetString("moves", moves)
	return t
}
