package template

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/claimwise/automation/model"
)

func TestRender(t *testing.T) {
	claim := &model.Claim{
		Id:     "claim-1",
		Fields: map[string]any{"name": "Acme", "amount": 1200},
	}
	triggerData := map[string]any{"due": "5/1"}

	for scenario, tc := range map[string]struct {
		template string
		expected string
	}{
		"claim and trigger tokens": {
			template: "Hello {claim.name}, due {trigger.due}",
			expected: "Hello Acme, due 5/1",
		},
		"missing claim field": {
			template: "{claim.missing}",
			expected: "",
		},
		"missing trigger field": {
			template: "due {trigger.absent}!",
			expected: "due !",
		},
		"unknown scope": {
			template: "{nonsense.token}",
			expected: "",
		},
		"non string field": {
			template: "amount {claim.amount}",
			expected: "amount 1200",
		},
		"no tokens": {
			template: "plain text",
			expected: "plain text",
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			require.Equal(t, tc.expected, Render(tc.template, claim, triggerData))
		})
	}
}

func TestRenderValueContainingToken(t *testing.T) {
	claim := &model.Claim{
		Id: "claim-1",
		Fields: map[string]any{
			"name":     "Acme",
			"greeting": "{claim.name}",
		},
	}

	// A field value that looks like a token stays literal regardless of
	// where it appears relative to other tokens.
	require.Equal(t, "{claim.name} Acme", Render("{claim.greeting} {claim.name}", claim, nil))
	require.Equal(t, "Acme {claim.name}", Render("{claim.name} {claim.greeting}", claim, nil))
}

func TestRenderWithoutClaim(t *testing.T) {
	out := Render("Hello {claim.name}, due {trigger.due}", nil, map[string]any{"due": "5/1"})
	require.Equal(t, "Hello , due 5/1", out)
}

func TestRenderWithoutTriggerData(t *testing.T) {
	out := Render("due {trigger.due}", nil, nil)
	require.Equal(t, "due ", out)
}

func TestRenderInspectionAliases(t *testing.T) {
	triggerData := map[string]any{
		"inspection": map[string]any{
			"date":      "2024-05-01",
			"time":      "10:30",
			"type":      "roof",
			"inspector": "J. Doe",
			"notes":     "bring ladder",
		},
	}

	// Aliases resolve identically to the generic trigger path.
	require.Equal(t,
		Render("{trigger.inspection.date}", nil, triggerData),
		Render("{inspection.date}", nil, triggerData))
	require.Equal(t, "2024-05-01", Render("{inspection.date}", nil, triggerData))
	require.Equal(t, "J. Doe", Render("{inspection.inspector}", nil, triggerData))
	require.Equal(t, "roof at 10:30", Render("{inspection.type} at {inspection.time}", nil, triggerData))

	// Alias over an absent nested map is just empty.
	require.Equal(t, "", Render("{inspection.notes}", nil, map[string]any{}))
}

func TestRenderNeverPanics(t *testing.T) {
	for _, template := range []string{
		"{", "}", "{}", "{claim.}", "{trigger.}", "{claim}", "{{claim.name}}", "{trigger.a.b.c}",
	} {
		require.NotPanics(t, func() {
			Render(template, nil, nil)
		})
	}
}
