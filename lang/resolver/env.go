package resolver

import (
	"github.com/InAnYan/loop/lang/ast"
	"github.com/InAnYan/loop/lang/diag"
	"golang.org/x/exp/slices"
)

// maxUpvalues is the per-function cap on captured variables, per spec.
const maxUpvalues = 256

// local is one binding recorded in an Env's defs/globals/exports list.
type local struct {
	ident      *ast.Identifier
	scope      int
	isCaptured bool
	isFinal    bool
}

// env is one lexical environment: one per function (including the
// implicit top-level script). globals/exports are only ever populated on
// the top-level env; every other env only ever appends to defs.
type env struct {
	name   string
	parent *env
	scope  int

	defs      []local
	defsIdx   *nameIndex
	globals   []local
	globalIdx *nameIndex
	exports   []local
	exportIdx *nameIndex

	upvalues []ast.UpvalueDesc

	errs diag.Listener
}

// newEnv creates a child env of parent (nil for the top-level script env).
// Every non-script env reserves local slot 0 for the implicit `this`
// receiver.
func newEnv(name string, parent *env, errs diag.Listener) *env {
	e := &env{
		name:      name,
		parent:    parent,
		defsIdx:   newNameIndex(),
		globalIdx: newNameIndex(),
		exportIdx: newNameIndex(),
		errs:      errs,
	}
	if parent != nil {
		e.scope = parent.scope + 1
		e.defs = append(e.defs, local{
			ident:   &ast.Identifier{Text: "this", RefType: ast.Local, RefIndex: 0},
			scope:   e.scope,
			isFinal: true,
		})
		e.defsIdx.push("this", 0)
	}
	return e
}

func (e *env) newBlock() { e.scope++ }

// endBlock pops every binding introduced at the current scope depth and
// returns their captured flags in pop order, for BlockStmt.Locals.
func (e *env) endBlock() []ast.BlockLocal {
	var out []ast.BlockLocal
	for len(e.defs) > 0 && e.defs[len(e.defs)-1].scope == e.scope {
		top := e.defs[len(e.defs)-1]
		out = append(out, ast.BlockLocal{IsCaptured: top.isCaptured})
		e.defsIdx.pop(top.ident.Text)
		e.defs = slices.Delete(e.defs, len(e.defs)-1, len(e.defs))
	}
	e.scope--
	return out
}

// defineVar records name as a new binding: GLOBAL/EXPORT at scope 0,
// LOCAL otherwise. It reports redefinition and export-at-non-top errors
// but always completes the definition (error recovery continues).
func (e *env) defineVar(name *ast.Identifier, export, isFinal bool) {
	e.checkRedefinition(name)
	if export {
		e.checkExport(name)
	}

	var (
		list *[]local
		idx  *nameIndex
		rt   ast.RefType
	)
	switch {
	case e.scope == 0 && export:
		list, idx, rt = &e.exports, e.exportIdx, ast.Export
	case e.scope == 0:
		list, idx, rt = &e.globals, e.globalIdx, ast.Global
	default:
		list, idx, rt = &e.defs, e.defsIdx, ast.Local
	}

	*list = append(*list, local{ident: name, scope: e.scope, isFinal: isFinal})
	name.Resolve(rt, len(*list)-1)
	idx.push(name.Text, len(*list)-1)
}

func (e *env) checkRedefinition(name *ast.Identifier) {
	if e.scope == 0 {
		if i, ok := e.globalIdx.top(name.Text); ok && e.globals[i].scope == e.scope {
			e.reportRedefinition(name, e.globals[i].ident)
			return
		}
		if i, ok := e.exportIdx.top(name.Text); ok && e.exports[i].scope == e.scope {
			e.reportRedefinition(name, e.exports[i].ident)
		}
		return
	}
	if i, ok := e.defsIdx.top(name.Text); ok && e.defs[i].scope == e.scope {
		e.reportRedefinition(name, e.defs[i].ident)
	}
}

func (e *env) reportRedefinition(name, prev *ast.Identifier) {
	e.errs.Errorf(name.Span(), "variable '%s' is already defined", name.Text)
	e.errs.Notef(prev.Span(), "previous definition of '%s'", name.Text)
}

func (e *env) checkExport(name *ast.Identifier) {
	if e.scope != 0 {
		e.errs.Errorf(name.Span(), "cannot export a non-top-level definition")
	}
}

// resolve fills in name's (RefType, RefIndex) by trying, in order: a
// local in this env, an upvalue chain up through parents, the top env's
// globals, then its exports.
func (e *env) resolve(name *ast.Identifier) {
	if e.resolveLocal(name) {
		return
	}
	if e.resolveUpvalue(name) {
		return
	}
	if e.resolveGlobal(name) {
		return
	}
	if e.resolveExport(name) {
		return
	}
	e.errs.Errorf(name.Span(), "variable '%s' is not defined", name.Text)
}

func (e *env) resolveLocal(name *ast.Identifier) bool {
	i, ok := e.defsIdx.top(name.Text)
	if !ok {
		return false
	}
	d := e.defs[i]
	name.Resolve(d.ident.RefType, d.ident.RefIndex)
	return true
}

func (e *env) resolveUpvalue(name *ast.Identifier) bool {
	if e.parent == nil {
		return false
	}
	if e.parent.resolveLocal(name) {
		i, _ := e.parent.defsIdx.top(name.Text)
		e.parent.defs[i].isCaptured = true
		e.addUpvalue(name, true)
		return true
	}
	if e.parent.resolveUpvalue(name) {
		e.addUpvalue(name, false)
		return true
	}
	return false
}

func (e *env) addUpvalue(name *ast.Identifier, isLocal bool) {
	parentIndex := name.RefIndex
	for i, up := range e.upvalues {
		if up.Index == parentIndex && up.IsLocal == isLocal {
			name.Resolve(ast.Upvalue, i)
			return
		}
	}
	e.upvalues = append(e.upvalues, ast.UpvalueDesc{Index: parentIndex, IsLocal: isLocal})
	name.Resolve(ast.Upvalue, len(e.upvalues)-1)
	if len(e.upvalues) > maxUpvalues {
		e.errs.Errorf(name.Span(), "too many upvalues (max %d)", maxUpvalues)
	}
}

func (e *env) resolveGlobal(name *ast.Identifier) bool {
	if e.parent != nil {
		return e.parent.resolveGlobal(name)
	}
	i, ok := e.globalIdx.top(name.Text)
	if !ok {
		return false
	}
	d := e.globals[i]
	name.Resolve(d.ident.RefType, d.ident.RefIndex)
	return true
}

func (e *env) resolveExport(name *ast.Identifier) bool {
	if e.parent != nil {
		return e.parent.resolveExport(name)
	}
	i, ok := e.exportIdx.top(name.Text)
	if !ok {
		return false
	}
	d := e.exports[i]
	name.Resolve(d.ident.RefType, d.ident.RefIndex)
	return true
}

// checkAssignable reports whether name currently refers to a non-final
// binding, searching in the order resolve uses: this env's defs, then up
// the parent chain, then the top env's globals and exports. It returns
// false (not an error by itself) when the name isn't found at all — an
// undefined name is reported separately by resolve.
func (e *env) checkAssignable(name *ast.Identifier) bool {
	if i, ok := e.defsIdx.top(name.Text); ok {
		return !e.defs[i].isFinal
	}
	if e.parent != nil {
		return e.parent.checkAssignable(name)
	}
	if i, ok := e.globalIdx.top(name.Text); ok {
		return !e.globals[i].isFinal
	}
	if i, ok := e.exportIdx.top(name.Text); ok {
		return !e.exports[i].isFinal
	}
	return false
}
