package action

import (
	"fmt"
	"strings"
)

const RECIPIENT_POLICYHOLDER string = "policyholder"
const RECIPIENT_ADJUSTER string = "adjuster"
const RECIPIENT_REFERRER string = "referrer"

// resolveRecipient maps a recipient selector to a claim contact field,
// e.g. ("adjuster", "email") reads adjuster_email.
func resolveRecipient(ec *ExecutionContext, recipientType string, channel string) (string, error) {
	switch recipientType {
	case RECIPIENT_POLICYHOLDER, RECIPIENT_ADJUSTER, RECIPIENT_REFERRER:
	default:
		return "", ValidationError{Message: fmt.Sprintf("unknown recipient type %q", recipientType)}
	}
	if ec.Claim == nil {
		return "", ValidationError{Message: "execution has no claim to resolve recipient from"}
	}
	field := recipientType + "_" + channel
	value, ok := ec.Claim.Field(field)
	address := strings.TrimSpace(fmt.Sprintf("%v", value))
	if !ok || value == nil || address == "" {
		return "", ValidationError{Message: fmt.Sprintf("claim %s has no %s", ec.Claim.Id, field)}
	}
	return address, nil
}
