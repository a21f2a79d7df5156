package codegen_test

import (
	"testing"

	"github.com/cmlang/cmc/pkg/codegen"
	"github.com/cmlang/cmc/pkg/diag"
	"github.com/cmlang/cmc/pkg/lexer"
	"github.com/cmlang/cmc/pkg/parser"
	"github.com/cmlang/cmc/pkg/vm"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// assertInstructions fails with a field-level diff when got and want
// disagree, rather than testify's single-line struct dump.
func assertInstructions(t *testing.T, want, got vm.InstructionList) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("instruction stream mismatch:\n%s", diff)
	}
}

func compile(t *testing.T, src string) vm.InstructionList {
	_, report := diag.Collect()
	p := parser.New(lexer.New([]byte(src)), report)
	return codegen.Compile(p.Parse())
}

func TestEmptySourceYieldsJustEnd(t *testing.T) {
	list := compile(t, "")
	assert.Equal(t, vm.InstructionList{{Op: vm.End}}, list)
}

func TestEmptyFunctionS1(t *testing.T) {
	list := compile(t, "fn main() { }")
	assert.Equal(t, vm.InstructionList{
		{Op: vm.Push, DReg: vm.BP},
		{Op: vm.Mov, SReg: vm.SP, DReg: vm.BP},
		{Op: vm.Leave},
		{Op: vm.End},
	}, list)
}

func TestScalarInitializerS2(t *testing.T) {
	list := compile(t, "fn f() { let x: i64 = 42; }")
	assert.Equal(t, vm.InstructionList{
		{Op: vm.Push, DReg: vm.BP},
		{Op: vm.Mov, SReg: vm.SP, DReg: vm.BP},
		{Op: vm.Store, Imm64: 42, SReg: vm.BP, Disp: 0, Size: 8},
		{Op: vm.Leave},
		{Op: vm.End},
	}, list)
}

func TestArrayInitializerS3(t *testing.T) {
	list := compile(t, "fn f() { let a: i32[3] = { 1, 2, 3 }; }")
	stores := list[2:5]
	assert.Equal(t, vm.Instruction{Op: vm.Store, Imm64: 1, SReg: vm.BP, Disp: 0, Size: 4}, stores[0])
	assert.Equal(t, vm.Instruction{Op: vm.Store, Imm64: 2, SReg: vm.BP, Disp: 4, Size: 4}, stores[1])
	assert.Equal(t, vm.Instruction{Op: vm.Store, Imm64: 3, SReg: vm.BP, Disp: 8, Size: 4}, stores[2])
}

func TestStringInitializerS4(t *testing.T) {
	list := compile(t, `fn f() { let s: string = "hi"; }`)
	stores := list[2:4]
	assert.Equal(t, vm.Instruction{Op: vm.Store, Imm64: uint64('h'), SReg: vm.BP, Disp: 0, Size: 1}, stores[0])
	assert.Equal(t, vm.Instruction{Op: vm.Store, Imm64: uint64('i'), SReg: vm.BP, Disp: 1, Size: 1}, stores[1])
}

func TestUninitializedNumericEmitsZeroStore(t *testing.T) {
	list := compile(t, "fn f() { let x: i32; }")
	assert.Contains(t, list, vm.Instruction{Op: vm.Store, Imm64: 0, SReg: vm.BP, Disp: 0, Size: 4})
}

func TestUninitializedStringEmitsNothingQ4(t *testing.T) {
	list := compile(t, "fn f() { let s: string; }")
	assert.Equal(t, vm.InstructionList{
		{Op: vm.Push, DReg: vm.BP},
		{Op: vm.Mov, SReg: vm.SP, DReg: vm.BP},
		{Op: vm.Leave},
		{Op: vm.End},
	}, list)
}

func TestEmissionIsIdempotentP5(t *testing.T) {
	src := "fn f() { let a: i32[3] = { 1, 2, 3 }; } fn g() { let x: i64 = 7; }"
	first := compile(t, src)
	second := compile(t, src)
	assertInstructions(t, first, second)
	assert.Equal(t, codegen.Fingerprint(first), codegen.Fingerprint(second))
}

func TestFrameBalanceP6(t *testing.T) {
	list := compile(t, "fn f() { } fn g() { let x: i64 = 1; }")
	pushes, leaves := 0, 0
	for _, instr := range list {
		switch instr.Op {
		case vm.Push:
			pushes++
		case vm.Leave:
			leaves++
		}
	}
	assert.Equal(t, pushes, leaves)
}
