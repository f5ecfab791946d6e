package scene

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// LuaTimeout bounds how long a scene script may run.
const LuaTimeout = 2 * time.Second

// decodeLua runs a scene script. The script describes the scene by calling
//
//	screen{width = 80, height = 24}
//	layer{id = "bg", x = 0, y = 0, width = 80, height = 24, z = 0, rows = {...}}
//
// Only the base, table, string and math libraries are available.
func decodeLua(name string, data []byte) (*Document, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, fn := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(fn, lua.LNil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), LuaTimeout)
	defer cancel()
	L.SetContext(ctx)

	root := map[string]any{}
	layers := []any{}

	L.SetGlobal("screen", L.NewFunction(func(L *lua.LState) int {
		m, ok := tableArg(L)
		if !ok {
			L.ArgError(1, "expected table with width and height")
			return 0
		}
		for _, k := range []string{"width", "height"} {
			if v, ok := m[k]; ok {
				root[k] = v
			}
		}
		return 0
	}))
	L.SetGlobal("layer", L.NewFunction(func(L *lua.LState) int {
		m, ok := tableArg(L)
		if !ok {
			L.ArgError(1, "expected layer table")
			return 0
		}
		layers = append(layers, m)
		return 0
	}))

	if err := L.DoString(string(data)); err != nil {
		return nil, &ParseError{Path: name, Message: err.Error(), Err: err}
	}

	root["layers"] = layers
	return documentFromMap(name, root)
}

// tableArg returns the first argument as a keyed table. An empty table
// counts as one with no keys.
func tableArg(L *lua.LState) (map[string]any, bool) {
	switch v := luaToGo(L.CheckTable(1)).(type) {
	case map[string]any:
		return v, true
	case []any:
		return map[string]any{}, len(v) == 0
	}
	return nil, false
}

// luaToGo converts a Lua value into the generic tree documentFromMap
// understands. A table with only sequence keys becomes a list, anything
// else a map keyed by string.
func luaToGo(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LString:
		return string(v)
	case lua.LNumber:
		return float64(v)
	case lua.LBool:
		return bool(v)
	case *lua.LTable:
		n := v.Len()
		isList := true
		count := 0
		v.ForEach(func(k, _ lua.LValue) {
			count++
			if _, ok := k.(lua.LNumber); !ok {
				isList = false
			}
		})
		if isList && count == n {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				list = append(list, luaToGo(v.RawGetInt(i)))
			}
			return list
		}
		m := make(map[string]any, count)
		v.ForEach(func(k, val lua.LValue) {
			m[fmt.Sprint(k)] = luaToGo(val)
		})
		return m
	default:
		return nil
	}
}
