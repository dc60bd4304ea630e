// Package script runs Lua scripts against a backtracking cursor.
//
// The input is bound to the global "input". Scripts read items, save
// checkpoints, and rewind to try alternatives:
//
//	local cp = input:save()
//	local item = input:next()
//	if item ~= "(" then
//	    input:rewind(cp)
//	end
//	emit(input:offset(), item)
//
// # Cursor methods
//
//   - next() returns the next item, or nil at the end
//   - peek() returns the next item without consuming it
//   - save() returns a checkpoint for the current position
//   - rewind(cp) returns true, or nil and a message for an invalid checkpoint
//   - try(fn) calls fn(cursor) and rewinds unless it returns a true value
//   - offset(), at_end(), location()
//   - consumed(), remaining(), source() return a string for text cursors
//     and a table for list cursors
//
// # Globals
//
//   - emit(...) writes its arguments as one tab separated output line
//   - print(...) writes to the log
//   - tokens.text(s), tokens.graphemes(s), tokens.list(t) create new cursors
//   - tokens.location(s, offset) returns line and column of a byte offset
//   - tokens.null stands for JSON null items
//
// Each run gets a fresh Lua state with only the base, table, string and
// math libraries. Runs are bounded by a timeout through the state's context.
package script
