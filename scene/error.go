package scene

import "fmt"

// ScriptError is the only error kind the interpreter raises. Every
// ScriptError is fatal to the running scene; the caller is expected to
// surface it with the scene name and 1-based line number and stop.
type ScriptError struct {
	Scene string
	Line  int
	Msg   string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script error (line %d in %s%s): %s", e.Line, e.Scene, DocExt, e.Msg)
}

// errf builds a ScriptError pointing at the session's current line.
func (s *Session) errf(format string, v ...interface{}) error {
	return &ScriptError{Scene: s.doc.Name, Line: s.index + 1, Msg: fmt.Sprintf(format, v...)}
}
