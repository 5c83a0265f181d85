package compiler

import (
	"github.com/InAnYan/loop/lang/ast"
	"github.com/InAnYan/loop/lang/diag"
	"github.com/InAnYan/loop/lang/token"
)

// Generator is a tree-walking code generator. One instance compiles one
// function body (the module top level counts as one too); it holds no
// binding state beyond the Emitter it owns, since lang/resolver already
// computed every Identifier's (ref_type, ref_index).
type Generator struct {
	errs diag.Listener
	em   *Emitter
}

func newGenerator(errs diag.Listener) *Generator {
	return &Generator{errs: errs, em: NewEmitter(errs)}
}

// CompileModule compiles a fully resolved module (see lang/resolver) into
// a ModuleValue. The caller must not write the resulting artifact if
// errs reports any error.
func CompileModule(mod *ast.Module, errs diag.Listener) *ModuleValue {
	g := newGenerator(errs)
	for _, s := range mod.Stmts {
		g.stmt(s)
	}
	g.em.EmitOpcode(ModuleEnd, lastStmtSpan(mod.Stmts, mod.Span()))
	return &ModuleValue{GlobalsCount: mod.GlobalsCount, Chunk: g.em.MakeChunk()}
}

func lastStmtSpan(stmts []ast.Stmt, fallback token.Span) token.Span {
	if len(stmts) == 0 {
		return fallback
	}
	return stmts[len(stmts)-1].Span()
}

// compileFunction compiles one function or method body into a
// FunctionValue, appending the implicit trailing return the source
// lacked: `get_local 0; return` for an init method, `push_null; return`
// otherwise.
func (g *Generator) compileFunction(name string, arity int, body *ast.BlockStmt, isInitMethod bool) *FunctionValue {
	fg := newGenerator(g.errs)
	fg.block(body)

	fallback := body.Span()
	if last, ok := fg.em.LastOpcode(); !ok || last != Return {
		if isInitMethod {
			fg.em.EmitOpcode(GetLocal, fallback)
			fg.em.EmitByte(0, fallback)
			fg.em.EmitOpcode(Return, fallback)
		} else {
			fg.em.EmitOpcode(PushNull, fallback)
			fg.em.EmitOpcode(Return, fallback)
		}
	}

	return &FunctionValue{Name: name, Arity: arity, Chunk: fg.em.MakeChunk()}
}

func (g *Generator) block(b *ast.BlockStmt) {
	for _, s := range b.Stmts {
		g.stmt(s)
	}
	for _, loc := range b.Locals {
		op := Pop
		if loc.IsCaptured {
			op = CloseUpvalue
		}
		g.em.EmitOpcode(op, b.Span())
	}
}

func (g *Generator) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.PrintStmt:
		g.expr(n.Value)
		g.em.EmitOpcode(Print, n.Span())
	case *ast.ExprStmt:
		g.expr(n.Value)
		g.em.EmitOpcode(Pop, n.Span())
	case *ast.VarDecl:
		if n.Init != nil {
			g.expr(n.Init)
		} else {
			g.em.EmitOpcode(PushNull, n.Span())
		}
		g.defineVar(identOf(n.Target))
	case *ast.BlockStmt:
		g.block(n)
	case *ast.IfStmt:
		g.expr(n.Cond)
		falseJump := g.em.EmitJump(JumpIfFalsePop, n.Span())
		g.block(n.Then)
		thenJump := g.em.EmitJump(Jump, n.Span())
		g.em.PatchJump(falseJump, n.Span())
		if n.Else != nil {
			g.block(n.Else)
		}
		g.em.PatchJump(thenJump, n.Span())
	case *ast.WhileStmt:
		conditionAt := g.em.Pos()
		g.expr(n.Cond)
		exitJump := g.em.EmitJump(JumpIfFalsePop, n.Span())
		g.block(n.Body)
		g.em.EmitLoop(conditionAt, n.Span())
		g.em.PatchJump(exitJump, n.Span())
	case *ast.FuncDecl:
		fv := g.compileFunction(n.Name.Text, len(n.Params), n.Body, false)
		g.em.EmitLong(LongPushConstant, fv, n.Span())
		g.emitUpvalues(n.Upvalues, n.Span())
		g.defineVar(n.Name)
	case *ast.ReturnStmt:
		if n.Value != nil {
			g.expr(n.Value)
		} else {
			g.em.EmitOpcode(PushNull, n.Span())
		}
		g.em.EmitOpcode(Return, n.Span())
	case *ast.ClassDecl:
		methods := make([]*FunctionValue, 0, len(n.Methods))
		for _, m := range n.Methods {
			methods = append(methods, g.compileFunction(m.Name.Text, len(m.Params), m.Body, m.Name.Text == "init"))
		}
		g.em.EmitLong(LongPushConstant, &ClassValue{Name: n.Name.Text, Methods: methods}, n.Span())
		g.defineVar(n.Name)
	case *ast.ImportAsStmt:
		g.em.EmitLong(LongImport, &StringValue{Text: n.Path}, n.Span())
		g.defineVar(n.Name)
	case *ast.LetDecl:
		panic("compiler: LetDecl should have been demoted by lowering-after")
	case *ast.ImportFromStmt:
		panic("compiler: ImportFromStmt should have been lowered before resolution")
	case *ast.TryStmt, *ast.ThrowStmt, *ast.ForInStmt, *ast.BreakStmt, *ast.ContinueStmt:
		g.unsupported(s)
	default:
		panic("compiler: unhandled statement node")
	}
}

// unsupported reports that s resolves fine but has no mapping onto the
// fixed 0-42 instruction set this core targets — iteration and
// exception unwinding are VM-level concerns this core does not emit.
func (g *Generator) unsupported(s ast.Stmt) {
	g.errs.Errorf(s.Span(), "this construct has no bytecode mapping in the current instruction set")
}

// identOf extracts the single identifier a (post-lowering) Pattern must
// be, since list patterns never reach the generator — lowering-before
// eliminates them.
func identOf(p ast.Pattern) *ast.Identifier {
	ip, ok := p.(*ast.IdentifierPattern)
	if !ok {
		panic("compiler: non-identifier pattern reached codegen; should have been lowered")
	}
	return ip.Ident
}

func (g *Generator) emitUpvalues(upvalues []ast.UpvalueDesc, span token.Span) {
	if len(upvalues) == 0 {
		return
	}
	g.em.EmitOpcode(BuildClosure, span)
	g.em.EmitByte(byte(len(upvalues)), span)
	for _, uv := range upvalues {
		var isLocal byte
		if uv.IsLocal {
			isLocal = 1
		}
		g.em.EmitByte(isLocal, span)
		g.em.EmitByte(byte(uv.Index), span)
	}
}

func (g *Generator) defineVar(ident *ast.Identifier) {
	switch ident.RefType {
	case ast.Global:
		g.em.EmitOpcode(SetGlobal, ident.Span())
		g.em.EmitByte(byte(ident.RefIndex), ident.Span())
		g.em.EmitOpcode(Pop, ident.Span())
	case ast.Export:
		g.em.EmitLong(LongExport, &StringValue{Text: ident.Text}, ident.Span())
	case ast.Local:
		// Nothing to do: the value is already sitting in its slot.
	default:
		panic("compiler: defineVar on an unresolved identifier")
	}
}

func (g *Generator) getVar(ident *ast.Identifier) {
	if ident.Text == "super" {
		g.errs.Errorf(ident.Span(), "'super' has no bytecode mapping in the current instruction set")
		return
	}
	switch ident.RefType {
	case ast.Global:
		g.em.EmitOpcode(GetGlobal, ident.Span())
		g.em.EmitByte(byte(ident.RefIndex), ident.Span())
	case ast.Local:
		g.em.EmitOpcode(GetLocal, ident.Span())
		g.em.EmitByte(byte(ident.RefIndex), ident.Span())
	case ast.Export:
		g.em.EmitLong(LongGetExport, &StringValue{Text: ident.Text}, ident.Span())
	case ast.Upvalue:
		g.em.EmitOpcode(GetUpvalue, ident.Span())
		g.em.EmitByte(byte(ident.RefIndex), ident.Span())
	default:
		panic("compiler: getVar on an unresolved identifier")
	}
}

func (g *Generator) setVar(ident *ast.Identifier) {
	switch ident.RefType {
	case ast.Global:
		g.em.EmitOpcode(SetGlobal, ident.Span())
		g.em.EmitByte(byte(ident.RefIndex), ident.Span())
	case ast.Local:
		g.em.EmitOpcode(SetLocal, ident.Span())
		g.em.EmitByte(byte(ident.RefIndex), ident.Span())
	case ast.Export:
		g.em.EmitLong(LongSetExport, &StringValue{Text: ident.Text}, ident.Span())
	case ast.Upvalue:
		g.em.EmitOpcode(SetUpvalue, ident.Span())
		g.em.EmitByte(byte(ident.RefIndex), ident.Span())
	default:
		panic("compiler: setVar on an unresolved identifier")
	}
}

func (g *Generator) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		g.em.EmitLong(LongPushConstant, &IntegerValue{Num: n.Value}, n.Span())
	case *ast.BoolLiteral:
		op := PushFalse
		if n.Value {
			op = PushTrue
		}
		g.em.EmitOpcode(op, n.Span())
	case *ast.NullLiteral:
		g.em.EmitOpcode(PushNull, n.Span())
	case *ast.StringLiteral:
		g.em.EmitLong(LongPushConstant, &StringValue{Text: n.Value}, n.Span())
	case *ast.VarExpr:
		g.getVar(n.Ident)
	case *ast.Assignment:
		g.assignment(n)
	case *ast.UnaryOp:
		g.expr(n.Operand)
		g.em.EmitOpcode(unaryOpcode(n.Op), n.Span())
	case *ast.BinaryOp:
		g.binaryOp(n)
	case *ast.CallExpr:
		g.expr(n.Callee)
		for _, a := range n.Args {
			g.expr(a)
		}
		g.em.EmitOpcode(Call, n.Span())
		g.em.EmitByte(byte(len(n.Args)), n.Span())
	case *ast.GetAttrExpr:
		g.expr(n.Obj)
		g.em.EmitLong(LongGetAttribute, &StringValue{Text: n.Name.Text}, n.Span())
	case *ast.GetItemExpr:
		g.expr(n.Obj)
		for _, idx := range n.Index {
			g.expr(idx)
		}
		g.em.EmitOpcode(GetItem, n.Span())
		g.em.EmitByte(byte(len(n.Index)), n.Span())
	case *ast.DictionaryLiteral:
		for _, p := range n.Pairs {
			g.expr(p.Key)
			g.expr(p.Value)
		}
		g.em.EmitOpcode(BuildDictionary, n.Span())
		g.em.EmitByte(byte(len(n.Pairs)), n.Span())
	case *ast.ListLiteral:
		for _, el := range n.Elements {
			g.expr(el)
		}
		g.em.EmitOpcode(BuildList, n.Span())
		g.em.EmitByte(byte(len(n.Elements)), n.Span())
	default:
		panic("compiler: unhandled expression node")
	}
}

func (g *Generator) assignment(n *ast.Assignment) {
	switch t := n.Target.(type) {
	case *ast.VarExpr:
		g.expr(n.Value)
		g.setVar(t.Ident)
	case *ast.GetItemExpr:
		g.expr(t.Obj)
		for _, idx := range t.Index {
			g.expr(idx)
		}
		g.expr(n.Value)
		g.em.EmitOpcode(SetItem, n.Span())
		g.em.EmitByte(byte(len(t.Index)+1), n.Span())
	case *ast.GetAttrExpr:
		g.expr(t.Obj)
		g.expr(n.Value)
		g.em.EmitLong(LongSetAttribute, &StringValue{Text: t.Name.Text}, n.Span())
	default:
		panic("compiler: invalid assignment target reached codegen; should have been rejected by the resolver")
	}
}

func (g *Generator) binaryOp(n *ast.BinaryOp) {
	switch n.Op {
	case ast.BinLogicalOr:
		g.expr(n.Left)
		trueJump := g.em.EmitJump(JumpIfTrue, n.Span())
		g.em.EmitOpcode(Pop, n.Span())
		g.expr(n.Right)
		g.em.PatchJump(trueJump, n.Span())
	case ast.BinLogicalAnd:
		g.expr(n.Left)
		falseJump := g.em.EmitJump(JumpIfFalse, n.Span())
		g.em.EmitOpcode(Pop, n.Span())
		g.expr(n.Right)
		g.em.PatchJump(falseJump, n.Span())
	case ast.BinIs:
		// InstanceOf is absent from the stable opcode table (see
		// DESIGN.md); Top(30), otherwise never produced by this core,
		// stands in for it.
		g.expr(n.Left)
		g.expr(n.Right)
		g.em.EmitOpcode(Top, n.Span())
	default:
		g.expr(n.Left)
		g.expr(n.Right)
		op, trailingNot := basicBinaryOpcode(n.Op)
		g.em.EmitOpcode(op, n.Span())
		if trailingNot {
			g.em.EmitOpcode(Not, n.Span())
		}
	}
}

func unaryOpcode(op ast.UnaryOpType) Opcode {
	switch op {
	case ast.UnaryPlus:
		return Plus
	case ast.UnaryNegate:
		return Negate
	case ast.UnaryNot:
		return Not
	default:
		panic("compiler: unhandled unary operator")
	}
}

// basicBinaryOpcode returns the opcode for every non-short-circuit
// binary operator, plus whether a trailing Not must follow it. !=, >=
// and <= are expressed as the negation of Equal, Less and Greater
// respectively, matching the source's lack of dedicated opcodes for
// them.
func basicBinaryOpcode(op ast.BinaryOpType) (Opcode, bool) {
	switch op {
	case ast.BinAdd:
		return Add, false
	case ast.BinSubtract:
		return Subtract, false
	case ast.BinMultiply:
		return Multiply, false
	case ast.BinDivide:
		return Divide, false
	case ast.BinEqual:
		return Equal, false
	case ast.BinNotEqual:
		return Equal, true
	case ast.BinGreater:
		return Greater, false
	case ast.BinGreaterEqual:
		return Less, true
	case ast.BinLess:
		return Less, false
	case ast.BinLessEqual:
		return Greater, true
	default:
		panic("compiler: unhandled binary operator")
	}
}
