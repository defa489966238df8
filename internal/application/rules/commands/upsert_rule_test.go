package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/application/rules/commands"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

func TestUpsertRuleHandler_CreatesRuleThroughBackingTemplate(t *testing.T) {
	// Arrange
	engine := ruleEngine(t)

	// Act
	response := helpers.Send[*commands.UpsertRuleResponse](t, engine, &commands.UpsertRuleCommand{
		LocationID: "zone-floor-a",
		SKUID:      "sku-scarf",
		Min:        4,
		Max:        8,
		Priority:   10,
	})

	// Assert
	require.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, "rule-zone-floor-a-sku-scarf-non_rfid", response.RuleID)
	require.NotNil(t, response.Rule)
	assert.Equal(t, 4, response.Rule.Min())
	assert.Equal(t, 8, response.Rule.Max())
	assert.Equal(t, "tpl-zone-floor-a-sku-scarf-non_rfid", response.Rule.TemplateID())

	// The projection already planned against the new rule.
	tasks, err := engine.Tasks.FindOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 8, tasks[0].DeficitQty())
	assert.Equal(t, "zone-backroom", tasks[0].SourceZoneID())
}

func TestUpsertRuleHandler_RepeatUpsertEditsOneTemplate(t *testing.T) {
	// Arrange
	engine := ruleEngine(t)
	first := helpers.Send[*commands.UpsertRuleResponse](t, engine, &commands.UpsertRuleCommand{
		LocationID: "zone-floor-a",
		SKUID:      "sku-scarf",
		Min:        4,
		Max:        8,
	})
	require.Equal(t, common.StatusAccepted, first.Status)

	// Act
	second := helpers.Send[*commands.UpsertRuleResponse](t, engine, &commands.UpsertRuleCommand{
		LocationID: "zone-floor-a",
		SKUID:      "sku-scarf",
		Min:        2,
		Max:        4,
	})

	// Assert: same key, same backing template, retuned terms.
	require.Equal(t, common.StatusAccepted, second.Status)
	assert.Equal(t, first.RuleID, second.RuleID)
	assert.Equal(t, first.Rule.TemplateID(), second.Rule.TemplateID())
	assert.Equal(t, 2, second.Rule.Min())
	assert.Equal(t, 4, second.Rule.Max())

	templates, err := engine.Templates.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, templates, 1)
}

func TestUpsertRuleHandler_HigherPriorityTemplateKeepsTheKey(t *testing.T) {
	// Arrange: a zone template already pins the scarf band at priority 99.
	engine := ruleEngine(t)
	pinned := helpers.Send[*commands.UpsertRuleTemplateResponse](t, engine, &commands.UpsertRuleTemplateCommand{
		ID:       "tpl-scarf-pinned",
		Scope:    rules.ScopeLocation,
		ZoneID:   "zone-floor-a",
		Selector: rules.SelectorSKU,
		SKUID:    "sku-scarf",
		Min:      1,
		Max:      2,
		Priority: 99,
	})
	require.Equal(t, common.StatusAccepted, pinned.Status)

	// Act
	response := helpers.Send[*commands.UpsertRuleResponse](t, engine, &commands.UpsertRuleCommand{
		LocationID: "zone-floor-a",
		SKUID:      "sku-scarf",
		Min:        4,
		Max:        8,
		Priority:   10,
	})

	// Assert: the upsert lands, but the registry still answers with the
	// pinned template's terms for the key.
	require.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, 1, response.Rule.Min())
	assert.Equal(t, 2, response.Rule.Max())
	assert.Equal(t, "tpl-scarf-pinned", response.Rule.TemplateID())
}

func TestUpsertRuleHandler_SourceMismatch(t *testing.T) {
	// Arrange
	engine := ruleEngine(t)

	// Act: the scarf is not a tagged product.
	response := helpers.Send[*commands.UpsertRuleResponse](t, engine, &commands.UpsertRuleCommand{
		LocationID: "zone-floor-a",
		SKUID:      "sku-scarf",
		Source:     shared.SourceRFID,
		Min:        1,
		Max:        2,
	})

	// Assert
	assert.Equal(t, common.StatusSourceMismatch, response.Status)
}

func TestUpsertRuleHandler_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		cmd  *commands.UpsertRuleCommand
		want common.Status
	}{
		{
			name: "inverted bounds",
			cmd:  &commands.UpsertRuleCommand{LocationID: "zone-floor-a", SKUID: "sku-scarf", Min: 5, Max: 2},
			want: common.StatusInvalidMinMax,
		},
		{
			name: "unknown zone",
			cmd:  &commands.UpsertRuleCommand{LocationID: "zone-ghost", SKUID: "sku-scarf", Min: 1, Max: 2},
			want: common.StatusZoneNotFound,
		},
		{
			name: "unknown sku",
			cmd:  &commands.UpsertRuleCommand{LocationID: "zone-floor-a", SKUID: "sku-ghost", Min: 1, Max: 2},
			want: common.StatusSKUNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			engine := ruleEngine(t)

			// Act
			response := helpers.Send[*commands.UpsertRuleResponse](t, engine, tc.cmd)

			// Assert
			assert.Equal(t, tc.want, response.Status)
		})
	}
}
