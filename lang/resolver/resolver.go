// Package resolver implements the semantic/name-resolution pass: it fills
// in (RefType, RefIndex) on every Identifier, computes per-function
// upvalue lists and per-block capture-flag lists, reports every binding
// error it finds, and recursively drives compilation of imported modules
// through an injected ImportCompiler (to avoid an import cycle back to
// the top-level orchestrator).
package resolver

import (
	"context"
	"os"

	"github.com/InAnYan/loop/lang/ast"
	"github.com/InAnYan/loop/lang/diag"
	"github.com/InAnYan/loop/lang/token"
)

// BuiltinsPath is the reserved import path that short-circuits recursive
// compilation: the language's builtins module is provided by the VM, not
// by a .loop source file.
const BuiltinsPath = "builtins"

// ImportCompiler is implemented by the top-level orchestrator and injected
// into the resolver, letting the resolver recurse into a fresh compile of
// an imported module's source without the resolver package importing the
// orchestrator package (which imports the resolver).
type ImportCompiler interface {
	// CompileImport compiles the module at path (relative to the current
	// working directory, already scoped to the importing file's
	// directory by the caller) reporting any errors to errs. It returns
	// false if the import could not be found or failed to compile.
	CompileImport(ctx context.Context, path string, span token.Span, errs diag.Listener) bool
}

type loopFrame struct{ scope int }

// Resolver runs the semantic pass over a single module.
type Resolver struct {
	errs      diag.Listener
	env       *env
	classes   int
	loops     []loopFrame
	importer  ImportCompiler
	moduleDir string
}

// New creates a Resolver for a module whose file lives in moduleDir
// (used as the base directory for the scoped-CWD-change around relative
// imports). importer may be nil if the module is known not to import
// anything other than "builtins" (tests commonly pass nil).
func New(moduleDir string, importer ImportCompiler, errs diag.Listener) *Resolver {
	return &Resolver{
		errs:      errs,
		env:       newEnv("<script>", nil, errs),
		importer:  importer,
		moduleDir: moduleDir,
	}
}

// Resolve runs the full pass over mod: the collect_globals pre-pass, then
// the full visit, then finalisation of mod.GlobalsCount.
func (r *Resolver) Resolve(ctx context.Context, mod *ast.Module) {
	r.collectGlobals(mod)
	for _, s := range mod.Stmts {
		r.stmt(ctx, s, false)
	}
	mod.GlobalsCount = len(r.env.globals)
}

// collectGlobals pre-visits only top-level VarDecl/LetDecl/FuncDecl/
// ClassDecl so forward references among top-level names are legal;
// initialisers and bodies are not visited here.
func (r *Resolver) collectGlobals(mod *ast.Module) {
	for _, s := range mod.Stmts {
		switch n := s.(type) {
		case *ast.VarDecl:
			r.definePattern(n.Target, n.Export, false)
		case *ast.LetDecl:
			r.definePattern(n.Target, n.Export, true)
		case *ast.FuncDecl:
			r.env.defineVar(n.Name, n.Export, true)
		case *ast.ClassDecl:
			r.env.defineVar(n.Name, n.Export, true)
		}
	}
}

func (r *Resolver) definePattern(p ast.Pattern, export, isFinal bool) {
	switch pat := p.(type) {
	case *ast.IdentifierPattern:
		r.env.defineVar(pat.Ident, export, isFinal)
	case *ast.ListPattern:
		r.errs.Errorf(pat.Span(), "list pattern should have been lowered before resolution")
	}
}

func (r *Resolver) newEnv(name string) { r.env = newEnv(name, r.env, r.errs) }
func (r *Resolver) endEnv()            { r.env = r.env.parent }

func (r *Resolver) stmt(ctx context.Context, s ast.Stmt, topLevelAlreadyCollected bool) {
	switch n := s.(type) {
	case *ast.PrintStmt:
		r.expr(ctx, n.Value)
	case *ast.ExprStmt:
		r.expr(ctx, n.Value)
	case *ast.VarDecl:
		if n.Init != nil {
			r.expr(ctx, n.Init)
		}
		if r.env.scope != 0 {
			r.definePattern(n.Target, n.Export, false)
		}
	case *ast.LetDecl:
		if n.Init != nil {
			r.expr(ctx, n.Init)
		}
		if r.env.scope != 0 {
			r.definePattern(n.Target, n.Export, true)
		}
	case *ast.BlockStmt:
		r.block(ctx, n)
	case *ast.IfStmt:
		r.expr(ctx, n.Cond)
		r.block(ctx, n.Then)
		if n.Else != nil {
			r.block(ctx, n.Else)
		}
	case *ast.WhileStmt:
		r.expr(ctx, n.Cond)
		r.loops = append(r.loops, loopFrame{scope: r.env.scope})
		r.block(ctx, n.Body)
		r.loops = r.loops[:len(r.loops)-1]
	case *ast.FuncDecl:
		if r.env.scope != 0 {
			r.env.defineVar(n.Name, n.Export, true)
		}
		r.funcProto(ctx, n.Name.Text, n.Params, n.Body, &n.Upvalues)
	case *ast.ReturnStmt:
		r.returnStmt(ctx, n)
	case *ast.ClassDecl:
		if r.env.scope != 0 {
			r.env.defineVar(n.Name, n.Export, true)
		}
		if n.Parent != nil {
			r.env.resolve(n.Parent)
		}
		r.classes++
		r.env.newBlock()
		for _, m := range n.Methods {
			r.funcProto(ctx, m.Name.Text, m.Params, m.Body, &m.Upvalues)
		}
		r.env.endBlock()
		r.classes--
	case *ast.TryStmt:
		r.block(ctx, n.Try)
		r.env.newBlock()
		r.env.defineVar(n.CatchName, false, true)
		r.checkBlockBody(ctx, n.Catch)
		n.Catch.Locals = append(r.env.endBlock(), n.Catch.Locals...)
	case *ast.ThrowStmt:
		if n.Value != nil {
			r.expr(ctx, n.Value)
		}
	case *ast.ForInStmt:
		r.env.newBlock()
		r.definePattern(n.Target, false, true)
		r.expr(ctx, n.Iterable)
		r.loops = append(r.loops, loopFrame{scope: r.env.scope})
		r.checkBlockBody(ctx, n.Body)
		r.loops = r.loops[:len(r.loops)-1]
		n.Body.Locals = append(r.env.endBlock(), n.Body.Locals...)
	case *ast.BreakStmt:
		if len(r.loops) == 0 {
			r.errs.Errorf(n.Span(), "cannot break outside of a loop")
		}
	case *ast.ContinueStmt:
		if len(r.loops) == 0 {
			r.errs.Errorf(n.Span(), "cannot continue outside of a loop")
		}
	case *ast.ImportAsStmt:
		r.env.defineVar(n.Name, false, true)
		if n.Path != BuiltinsPath {
			r.resolveImport(ctx, n.Path, n.Span())
		}
	case *ast.ImportFromStmt:
		r.errs.Errorf(n.Span(), "import-from should have been lowered before resolution")
	default:
		panic("resolver: unhandled statement node")
	}
}

// checkBlockBody visits a block's statements inside its own new_block/
// end_block bracketing, exactly as block does — used for TryStmt.Catch and
// ForInStmt.Body, whose outer binding slot (catch name / loop variable)
// is opened by the caller in an enclosing scope and later prepended by
// the caller to the block's own Locals.
func (r *Resolver) checkBlockBody(ctx context.Context, blk *ast.BlockStmt) {
	r.env.newBlock()
	for _, s := range blk.Stmts {
		r.stmt(ctx, s, false)
	}
	blk.Locals = r.env.endBlock()
}

func (r *Resolver) block(ctx context.Context, blk *ast.BlockStmt) {
	r.env.newBlock()
	for _, s := range blk.Stmts {
		r.stmt(ctx, s, false)
	}
	blk.Locals = r.env.endBlock()
}

func (r *Resolver) funcProto(ctx context.Context, name string, params []*ast.Identifier, body *ast.BlockStmt, upvalues *[]ast.UpvalueDesc) {
	r.newEnv(name)
	for _, p := range params {
		r.env.defineVar(p, false, false)
	}
	r.block(ctx, body)
	*upvalues = r.env.upvalues
	r.endEnv()
}

func (r *Resolver) returnStmt(ctx context.Context, n *ast.ReturnStmt) {
	if r.env.parent == nil {
		r.errs.Errorf(n.Span(), "unexpected return statement outside of a function")
	}
	if r.classes > 0 && r.env.name == "init" {
		ok := n.Value == nil
		if !ok {
			if v, isVar := n.Value.(*ast.VarExpr); isVar && v.Ident.Text == "init" {
				ok = true
			}
		}
		if !ok {
			r.errs.Errorf(n.Span(), "malformed return statement in the init method: must be bare or 'return init;'")
		}
	}
	if n.Value != nil {
		r.expr(ctx, n.Value)
	}
}

func (r *Resolver) resolveImport(ctx context.Context, path string, span token.Span) {
	if r.importer == nil {
		r.errs.Errorf(span, "cannot resolve import %q: no import compiler configured", path)
		return
	}
	restore, err := scopedChdir(r.moduleDir)
	if err != nil {
		r.errs.Errorf(span, "cannot enter directory %q: %v", r.moduleDir, err)
		return
	}
	defer restore()
	r.importer.CompileImport(ctx, path, span, r.errs)
}

// scopedChdir changes the process's working directory to dir (if dir is
// non-empty) and returns a function that restores the previous directory.
// The restore function must run even if the caller's work panics or
// errors, which is why every caller defers it immediately.
func scopedChdir(dir string) (restore func(), err error) {
	if dir == "" {
		return func() {}, nil
	}
	prev, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(dir); err != nil {
		return nil, err
	}
	return func() { _ = os.Chdir(prev) }, nil
}
