// Package codegen implements the tree-walking emitter that lowers a
// typed AST into a linear VM instruction list under a stack-frame
// discipline.
package codegen

import (
	"github.com/cmlang/cmc/pkg/ast"
	"github.com/cmlang/cmc/pkg/types"
	"github.com/cmlang/cmc/pkg/vm"
)

type symbolKind int

const (
	symVariable symbolKind = iota
	symFunction
)

// symbol binds a name to its declaring Statement, a kind, a byte size,
// and the frame offset assigned when it was added to its table.
type symbol struct {
	kind   symbolKind
	decl   *ast.Statement
	size   int32
	offset int32
}

// symbolTable is a codegen-side scope: it tracks a running offset from
// BP. AddSymbol assigns the symbol the current offset and advances the
// offset by the symbol's size. Independent of the parser's SymbolTable.
type symbolTable struct {
	symbols map[string]*symbol
	offset  int32
}

func newSymbolTable() *symbolTable {
	return &symbolTable{symbols: make(map[string]*symbol)}
}

func (t *symbolTable) addSymbol(name string, kind symbolKind, decl *ast.Statement, size int32) *symbol {
	sym := &symbol{kind: kind, decl: decl, size: size, offset: t.offset}
	t.symbols[name] = sym
	t.offset += size
	return sym
}

// context carries the emitter's LIFO stack of codegen symbol tables and
// the instruction list being built.
type context struct {
	scopes []*symbolTable
	instrs vm.InstructionList
}

func (c *context) pushScope() *symbolTable {
	t := newSymbolTable()
	c.scopes = append(c.scopes, t)
	return t
}

func (c *context) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *context) topScope() *symbolTable {
	return c.scopes[len(c.scopes)-1]
}

func (c *context) emit(instr vm.Instruction) {
	c.instrs = append(c.instrs, instr)
}

// Compile lowers the top-level FunctionDeclarations into a linear
// instruction list terminated by End.
func Compile(prog []*ast.Statement) vm.InstructionList {
	ctx := &context{}
	for _, fn := range prog {
		if fn.Kind == ast.FunctionDeclaration {
			ctx.compileFunctionBody(fn)
		}
	}
	ctx.emit(vm.Instruction{Op: vm.End})
	return ctx.instrs
}

// compileFunctionBody walks a FunctionDeclaration's children and
// compiles each BlockStatement child. Other statement kinds at function
// level (the parameter list) are ignored in the reference behaviour.
func (c *context) compileFunctionBody(fn *ast.Statement) {
	for _, child := range fn.Children {
		if child.Kind == ast.BlockStatement {
			c.compileBlockStatement(child)
		}
	}
}

// compileBlockStatement emits the frame prologue, compiles every
// VariableDeclaration child, and emits the epilogue. Other statement
// kinds (If, While, Return, expression statements, nested blocks) are
// not recursed into: the reference emitter only reserves frame storage
// for variable declarations at the block's own level.
func (c *context) compileBlockStatement(block *ast.Statement) {
	c.pushScope()

	c.emit(vm.Instruction{Op: vm.Push, DReg: vm.BP})
	c.emit(vm.Instruction{Op: vm.Mov, SReg: vm.SP, DReg: vm.BP})

	for _, stmt := range block.Children {
		if stmt.Kind == ast.VariableDeclaration {
			c.compileVariableDeclaration(stmt)
		}
	}

	c.popScope()
	c.emit(vm.Instruction{Op: vm.Leave})
}

// byteSize computes a type's storage size in bytes: bit width over 8,
// times the array length (1 for a scalar).
func byteSize(t types.Type) int32 {
	length := t.Length
	if length == 0 {
		length = 1
	}
	return int32(t.SizeBits()/8) * int32(length)
}

// elementType strips the array length off t, yielding the type used to
// size and type-check each element of an initializer list.
func elementType(t types.Type) types.Type {
	t.Length = 0
	return t
}

// compileVariableDeclaration reserves the declared type's byte span (for a
// string initialized from a literal, one byte per character of the
// literal). An initialized variable emits its initializer before the symbol is added,
// so the initializer's stores land at the offset the symbol is about to
// claim. An uninitialized numeric/boolean/character variable emits a
// single zeroed Store at that offset; uninitialized strings emit
// nothing (Q4, deferred in the reference behaviour).
func (c *context) compileVariableDeclaration(decl *ast.Statement) {
	table := c.topScope()
	size := byteSize(decl.Type)

	if len(decl.Children) > 0 {
		if lit := decl.Children[0].Children[0]; decl.Type.FType == types.String && decl.Type.Length == 0 && lit.Kind == ast.LiteralExpression {
			size = int32(len(lit.Tokens[0].Value)) * int32(types.Char.SizeBits()/8)
		}
		c.compileInitializer(decl.Children[0], elementType(decl.Type))
		table.addSymbol(decl.Name, symVariable, decl, size)
		return
	}

	switch decl.Type.FType {
	case types.Boolean, types.Character, types.Integer32, types.Integer64:
		c.emit(vm.Instruction{
			Op: vm.Store, SReg: vm.BP, Disp: table.offset,
			Size: int8(decl.Type.SizeBits() / 8),
		})
	case types.String:
		// FIXME: uninitialized strings do not allocate space.
	}
	table.addSymbol(decl.Name, symVariable, decl, size)
}

// compileInitializer dispatches on the Initializer node's single child:
// a scalar LiteralExpression, or an InitializerList.
func (c *context) compileInitializer(init *ast.Statement, targetType types.Type) {
	switch init.Children[0].Kind {
	case ast.LiteralExpression:
		c.compileLiteral(init.Children[0], targetType)
	case ast.InitializerList:
		c.compileInitializerList(init.Children[0], targetType)
	}
}

// compileExpression lowers an expression used inside an initializer
// list. FunctionCallExpression and ArgumentListExpression parse
// successfully but emit nothing (unimplemented but reachable).
func (c *context) compileExpression(expr *ast.Statement, targetType types.Type) {
	switch expr.Kind {
	case ast.LiteralExpression:
		c.compileLiteral(expr, targetType)
	case ast.FunctionCallExpression, ast.ArgumentListExpression:
	}
}

// compileLiteral emits the literal's store(s). Size is taken from
// targetType (the declared variable or array-element type), not from
// the literal's own inferred type — a NumberLiteral always infers
// Integer64, which would otherwise widen every numeric Store to 8 bytes
// regardless of the slot it is being stored into.
func (c *context) compileLiteral(lit *ast.Statement, targetType types.Type) {
	table := c.topScope()
	tok := lit.Tokens[0]

	switch targetType.FType {
	case types.Boolean, types.Character, types.Integer32, types.Integer64:
		c.emit(vm.Instruction{
			Op: vm.Store, Imm64: uint64(tok.Num), SReg: vm.BP,
			Disp: table.offset, Size: int8(targetType.SizeBits() / 8),
		})
	case types.String:
		offset := table.offset
		charSize := int32(types.Char.SizeBits() / 8)
		for i := 0; i < len(tok.Value); i++ {
			c.emit(vm.Instruction{
				Op: vm.Store, Imm64: uint64(tok.Value[i]), SReg: vm.BP,
				Disp: offset, Size: int8(charSize),
			})
			offset += charSize
		}
	}
}

// compileInitializerList walks its children, each recursively emitting
// its expression with the table's offset advanced by the element's byte
// size, then restores the offset: the enclosing VariableDeclaration
// reserves the total span when its own Symbol is subsequently added.
func (c *context) compileInitializerList(list *ast.Statement, elemType types.Type) {
	table := c.topScope()
	prevOffset := table.offset
	elemSize := int32(elemType.SizeBits() / 8)

	for _, expr := range list.Children {
		c.compileExpression(expr, elemType)
		table.offset += elemSize
	}

	table.offset = prevOffset
}
