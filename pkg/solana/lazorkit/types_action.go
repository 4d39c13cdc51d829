package lazorkit

import "fmt"

// Action selects what executeInstruction does once the passkey signature and
// rule check pass.
type Action uint8

const (
	ActionExecuteCpi Action = iota
	ActionChangeProgramRule
	ActionCheckAuthenticator
	ActionCallRuleProgram
)

func (a Action) String() string {
	switch a {
	case ActionExecuteCpi:
		return "execute_cpi"
	case ActionChangeProgramRule:
		return "change_program_rule"
	case ActionCheckAuthenticator:
		return "check_authenticator"
	case ActionCallRuleProgram:
		return "call_rule_program"
	}
	return fmt.Sprintf("unknown(%d)", uint8(a))
}

func (a Action) Valid() bool {
	return a <= ActionCallRuleProgram
}

func putAction(dst []byte, v Action, offset *int) {
	dst[0] = uint8(v)
	*offset += 1
}
