package records

// Kind is the canonical meaning of a variant table column.
type Kind int

const (
	// KindUnrecognized is any key without a known meaning.
	KindUnrecognized Kind = iota
	KindInstruction
	KindOpcode
	KindOpcodeInstruction
	Kind64BitMode
	Kind6432BitMode
	Kind6432BitModeSupport
	KindOperandEncoding
	KindCPUIDFeatureFlag
	KindCPUID
	KindDescription
	KindCompatLegMode
)

// Action is what the mapper does with a column of a given kind.
type Action int

const (
	ActionUnrecognized Action = iota
	ActionAssign
	ActionIgnore
)

var kindKeys = map[string]Kind{
	"Instruction":            KindInstruction,
	"Opcode":                 KindOpcode,
	"Opcode/Instruction":     KindOpcodeInstruction,
	"64-bit Mode":            Kind64BitMode,
	"64/32-bit Mode":         Kind6432BitMode,
	"64/32-bit Mode Support": Kind6432BitModeSupport,
	"Op/En":                  KindOperandEncoding,
	"CPUID Feature Flag":     KindCPUIDFeatureFlag,
	"CPUID":                  KindCPUID,
	"Description":            KindDescription,
	"Compat/Leg Mode":        KindCompatLegMode,
}

// Classify returns the kind of a canonical key. Every string has a kind;
// unknown keys are KindUnrecognized.
func Classify(key string) Kind {
	if k, ok := kindKeys[key]; ok {
		return k
	}
	return KindUnrecognized
}

// Action returns how columns of this kind are handled.
func (k Kind) Action() Action {
	switch k {
	case KindUnrecognized:
		return ActionUnrecognized
	case KindDescription, KindCompatLegMode:
		return ActionIgnore
	default:
		return ActionAssign
	}
}

// String returns the canonical key of the kind.
func (k Kind) String() string {
	for key, kind := range kindKeys {
		if kind == k {
			return key
		}
	}
	return "unrecognized"
}
