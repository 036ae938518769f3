package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the operand in the textual IR format.
func (o Operand) String() string {
	switch o.Kind {
	case OperandNone:
		return "_"
	case OperandTemp, OperandVar, OperandLabel:
		return o.Name
	case OperandFunc:
		return "func:" + o.Name
	case OperandConst:
		switch v := o.Const.(type) {
		case nil:
			return "null"
		case string:
			return strconv.Quote(v)
		case bool:
			return strconv.FormatBool(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64)
		default:
			return fmt.Sprintf("%v", v)
		}
	}
	return "?"
}

// String renders the instruction as one line of textual IR.
func (i Instruction) String() string {
	parts := []string{i.Op.String()}
	if !i.Result.IsNone() {
		parts = append(parts, i.Result.String(), "=")
	}
	for _, arg := range []Operand{i.Arg1, i.Arg2, i.Arg3} {
		if !arg.IsNone() {
			parts = append(parts, arg.String())
		}
	}
	for _, arg := range i.Args {
		parts = append(parts, arg.String())
	}
	return strings.Join(parts, " ")
}

// String renders the block with its instructions indented.
func (b *BasicBlock) String() string {
	var sb strings.Builder
	sb.WriteString("Block " + b.ID + ":\n")
	for _, instr := range b.Instructions {
		sb.WriteString("  " + instr.String() + "\n")
	}
	return sb.String()
}

// String renders the module in the line-oriented build artifact format:
//
//	Module IR:
//	Global: <instruction>...
//	Function <name>:
//	Block <id>:
//	  <opcode> <args...>
func (m *Module) String() string {
	var sb strings.Builder
	sb.WriteString("Module IR:\n")
	for _, instr := range m.Globals {
		sb.WriteString("Global: " + instr.String() + "\n")
	}
	for _, name := range m.FuncOrder {
		fn := m.Functions[name]
		sb.WriteString("\nFunction " + name + ":\n")
		for _, block := range fn.Blocks {
			sb.WriteString(block.String())
		}
	}
	return sb.String()
}
