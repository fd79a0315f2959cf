package model

// Opcode identifies the kind of an instruction.
type Opcode int32

const (
	Nop Opcode = iota

	Construct
	Invoke
	GetField
	PutField
	Cast
	StringConstant
	Exit

	EndOpcode
)

var opcodeNames = [...]string{
	Nop:            "Nop",
	Construct:      "Construct",
	Invoke:         "Invoke",
	GetField:       "GetField",
	PutField:       "PutField",
	Cast:           "Cast",
	StringConstant: "StringConstant",
	Exit:           "Exit",
	EndOpcode:      "EndOpcode",
}

func (op Opcode) String() string {
	if op < 0 || int(op) >= len(opcodeNames) {
		return "Opcode(?)"
	}
	return opcodeNames[op]
}

// InvocationType selects dispatch for an Invoke.
type InvocationType int

const (
	Virtual InvocationType = iota
	Special                // no dynamic dispatch: initializers, static and direct calls
)

func (t InvocationType) String() string {
	if t == Special {
		return "special"
	}
	return "virtual"
}
