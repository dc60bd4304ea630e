package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tokens/internal/tokens"
)

// viewer is a cursor with views of type V over its source.
type viewer[T, V any] interface {
	tokens.Tokens[T]
	Consumed() V
	Remaining() V
	Source() V
	Offset() int
	AtEnd() bool
}

// binding erases a cursor's item and view types so one Lua metatable
// serves every cursor kind.
type binding struct {
	next      func(L *lua.LState) lua.LValue
	save      func() tokens.Checkpoint
	rewind    func(tokens.Checkpoint) error
	offset    func() int
	atEnd     func() bool
	consumed  func(L *lua.LState) lua.LValue
	remaining func(L *lua.LState) lua.LValue
	source    func(L *lua.LState) lua.LValue

	// location is nil for cursors over elements.
	location func() tokens.Location
}

func bind[T, V any](
	c viewer[T, V],
	item func(*lua.LState, T) lua.LValue,
	view func(*lua.LState, V) lua.LValue,
) *binding {
	return &binding{
		next: func(L *lua.LState) lua.LValue {
			v, ok := c.Next()
			if !ok {
				return lua.LNil
			}
			return item(L, v)
		},
		save:      c.SaveCheckpoint,
		rewind:    c.RewindToCheckpoint,
		offset:    c.Offset,
		atEnd:     c.AtEnd,
		consumed:  func(L *lua.LState) lua.LValue { return view(L, c.Consumed()) },
		remaining: func(L *lua.LState) lua.LValue { return view(L, c.Remaining()) },
		source:    func(L *lua.LState) lua.LValue { return view(L, c.Source()) },
	}
}

func textBinding(s string) *binding {
	t := tokens.FromString(s)
	b := bind[rune, string](t, runeItem, stringValue)
	b.location = t.Location
	return b
}

func graphemeBinding(s string) *binding {
	t := tokens.FromGraphemes(s)
	b := bind[string, string](t, stringValue, stringValue)
	b.location = t.Location
	return b
}

func listBinding(items []string) *binding {
	return bind[*string, []string](tokens.FromSlice(items), stringRef, stringList)
}

func runeItem(_ *lua.LState, r rune) lua.LValue {
	return lua.LString(string(r))
}

func stringValue(_ *lua.LState, s string) lua.LValue {
	return lua.LString(s)
}

func stringRef(_ *lua.LState, s *string) lua.LValue {
	return lua.LString(*s)
}

func stringList(L *lua.LState, items []string) lua.LValue {
	t := L.CreateTable(len(items), 0)
	for i, s := range items {
		t.RawSetInt(i+1, lua.LString(s))
	}
	return t
}

const (
	cursorTypeName     = "tokens.cursor"
	checkpointTypeName = "tokens.checkpoint"
)

func registerCursorType(L *lua.LState) {
	mt := L.NewTypeMetatable(cursorTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"next":      cursorNext,
		"peek":      cursorPeek,
		"save":      cursorSave,
		"rewind":    cursorRewind,
		"try":       cursorTry,
		"offset":    cursorOffset,
		"at_end":    cursorAtEnd,
		"location":  cursorLocation,
		"consumed":  cursorConsumed,
		"remaining": cursorRemaining,
		"source":    cursorSource,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		b := checkCursor(L, 1)
		L.Push(lua.LString("cursor@" + lua.LNumber(b.offset()).String()))
		return 1
	}))

	cp := L.NewTypeMetatable(checkpointTypeName)
	L.SetField(cp, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"offset": checkpointOffset,
	}))
	L.SetField(cp, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(checkCheckpoint(L, 1).String()))
		return 1
	}))
	L.SetField(cp, "__eq", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkCheckpoint(L, 1) == checkCheckpoint(L, 2)))
		return 1
	}))
}

func newCursor(L *lua.LState, b *binding) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = b
	L.SetMetatable(ud, L.GetTypeMetatable(cursorTypeName))
	return ud
}

func checkCursor(L *lua.LState, n int) *binding {
	ud := L.CheckUserData(n)
	b, ok := ud.Value.(*binding)
	if !ok {
		L.ArgError(n, "cursor expected")
		return nil
	}
	return b
}

func checkCheckpoint(L *lua.LState, n int) tokens.Checkpoint {
	ud := L.CheckUserData(n)
	cp, ok := ud.Value.(tokens.Checkpoint)
	if !ok {
		L.ArgError(n, "checkpoint expected")
		return tokens.Checkpoint{}
	}
	return cp
}

// next() -> item or nil
func cursorNext(L *lua.LState) int {
	L.Push(checkCursor(L, 1).next(L))
	return 1
}

// peek() -> item or nil
func cursorPeek(L *lua.LState) int {
	b := checkCursor(L, 1)
	cp := b.save()
	v := b.next(L)
	if err := b.rewind(cp); err != nil {
		L.RaiseError("peek: %v", err)
		return 0
	}
	L.Push(v)
	return 1
}

// save() -> checkpoint
func cursorSave(L *lua.LState) int {
	b := checkCursor(L, 1)
	ud := L.NewUserData()
	ud.Value = b.save()
	L.SetMetatable(ud, L.GetTypeMetatable(checkpointTypeName))
	L.Push(ud)
	return 1
}

// rewind(cp) -> true, or nil and message
func cursorRewind(L *lua.LState) int {
	b := checkCursor(L, 1)
	cp := checkCheckpoint(L, 2)
	if err := b.rewind(cp); err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// try(fn) -> bool
// Calls fn(cursor); rewinds when fn returns nil or false.
func cursorTry(L *lua.LState) int {
	b := checkCursor(L, 1)
	fn := L.CheckFunction(2)

	cp := b.save()
	L.Push(fn)
	L.Push(L.Get(1))
	L.Call(1, 1)
	matched := lua.LVAsBool(L.Get(-1))
	L.Pop(1)

	if !matched {
		if err := b.rewind(cp); err != nil {
			L.RaiseError("try: %v", err)
			return 0
		}
	}
	L.Push(lua.LBool(matched))
	return 1
}

// offset() -> number
func cursorOffset(L *lua.LState) int {
	L.Push(lua.LNumber(checkCursor(L, 1).offset()))
	return 1
}

// at_end() -> bool
func cursorAtEnd(L *lua.LState) int {
	L.Push(lua.LBool(checkCursor(L, 1).atEnd()))
	return 1
}

// location() -> line, column, or nil for list cursors
func cursorLocation(L *lua.LState) int {
	b := checkCursor(L, 1)
	if b.location == nil {
		L.Push(lua.LNil)
		return 1
	}
	loc := b.location()
	L.Push(lua.LNumber(loc.Line))
	L.Push(lua.LNumber(loc.Column))
	return 2
}

func cursorConsumed(L *lua.LState) int {
	L.Push(checkCursor(L, 1).consumed(L))
	return 1
}

func cursorRemaining(L *lua.LState) int {
	L.Push(checkCursor(L, 1).remaining(L))
	return 1
}

func cursorSource(L *lua.LState) int {
	L.Push(checkCursor(L, 1).source(L))
	return 1
}

// cp:offset() -> number
func checkpointOffset(L *lua.LState) int {
	L.Push(lua.LNumber(checkCheckpoint(L, 1).Offset()))
	return 1
}
