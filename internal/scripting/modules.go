package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RegisterModules registers the engine.* Lua tables into L:
//   - engine.log.debug/info/warn(msg)
//   - engine.dice.sample(n) -> int in [0, n)
//   - engine.combat.damage(attacker_id, move_id, defender_id) -> expected damage, or nil when unaffected
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	logT := L.NewTable()
	L.SetField(logT, "debug", L.NewFunction(m.logFn(zap.DebugLevel)))
	L.SetField(logT, "info", L.NewFunction(m.logFn(zap.InfoLevel)))
	L.SetField(logT, "warn", L.NewFunction(m.logFn(zap.WarnLevel)))
	L.SetField(engine, "log", logT)

	diceT := L.NewTable()
	L.SetField(diceT, "sample", L.NewFunction(m.luaSample))
	L.SetField(engine, "dice", diceT)

	combatT := L.NewTable()
	L.SetField(combatT, "damage", L.NewFunction(m.luaDamage))
	L.SetField(engine, "combat", combatT)

	L.SetGlobal("engine", engine)
}

func (m *Manager) logFn(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, "lua: "+msg); ce != nil {
			ce.Write()
		}
		return 0
	}
}

func (m *Manager) luaSample(L *lua.LState) int {
	n := L.CheckInt(1)
	if n <= 0 {
		L.ArgError(1, "n must be positive")
		return 0
	}
	L.Push(lua.LNumber(m.roller.Intn(n)))
	return 1
}

func (m *Manager) luaDamage(L *lua.LState) int {
	attacker := L.CheckString(1)
	move := L.CheckString(2)
	defender := L.CheckString(3)
	if m.ExpectedDamage == nil {
		L.Push(lua.LNil)
		return 1
	}
	dmg, ok := m.ExpectedDamage(attacker, move, defender)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(dmg))
	return 1
}
