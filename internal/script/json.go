package script

import (
	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tokens/internal/tokens"
)

// jsonNull stands in for JSON null so a null item is not mistaken for the
// end of the cursor.
var jsonNull = &lua.LUserData{Value: "null", Metatable: lua.LNil}

func jsonBinding(elems []gjson.Result) *binding {
	return bind[*gjson.Result, []gjson.Result](tokens.FromSlice(elems), jsonRef, jsonList)
}

func jsonRef(L *lua.LState, r *gjson.Result) lua.LValue {
	return jsonToLua(L, *r)
}

func jsonList(L *lua.LState, elems []gjson.Result) lua.LValue {
	t := L.CreateTable(len(elems), 0)
	for i, r := range elems {
		t.RawSetInt(i+1, jsonToLua(L, r))
	}
	return t
}

// jsonToLua converts a JSON value. Arrays become sequences and objects
// become tables keyed by member name.
func jsonToLua(L *lua.LState, r gjson.Result) lua.LValue {
	switch r.Type {
	case gjson.Null:
		return jsonNull
	case gjson.False:
		return lua.LFalse
	case gjson.True:
		return lua.LTrue
	case gjson.Number:
		return lua.LNumber(r.Num)
	case gjson.String:
		return lua.LString(r.Str)
	}

	if r.IsArray() {
		return jsonList(L, r.Array())
	}
	t := L.NewTable()
	r.ForEach(func(key, value gjson.Result) bool {
		t.RawSetString(key.Str, jsonToLua(L, value))
		return true
	})
	return t
}
