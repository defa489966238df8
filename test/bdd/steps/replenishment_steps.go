package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	planningCommands "github.com/andrescamacho/floorsense-go/internal/application/planning/commands"
	ruleCommands "github.com/andrescamacho/floorsense-go/internal/application/rules/commands"
)

func (sc *storeContext) aRuleIsInstalled(min, max int, skuID string) error {
	response, err := send[*ruleCommands.UpsertRuleResponse](sc, &ruleCommands.UpsertRuleCommand{
		LocationID: "zone-floor",
		SKUID:      skuID,
		Min:        min,
		Max:        max,
		Priority:   10,
	})
	if err != nil {
		return err
	}
	if response.Status != common.StatusAccepted {
		return fmt.Errorf("rule upsert returned %s", response.Status)
	}
	return nil
}

func (sc *storeContext) anOpenTaskRequestsFromTheBackroom(qty int, skuID string) error {
	if err := sc.ensure(); err != nil {
		return err
	}
	open, err := sc.engine.Tasks.FindOpen(context.Background())
	if err != nil {
		return err
	}
	if len(open) != 1 {
		return fmt.Errorf("%d tasks are open, expected exactly one", len(open))
	}
	task := open[0]
	if task.SKUID() != skuID {
		return fmt.Errorf("task is for %s, expected %s", task.SKUID(), skuID)
	}
	if task.DeficitQty() != qty {
		return fmt.Errorf("task requests %d units, expected %d", task.DeficitQty(), qty)
	}
	if task.SourceZoneID() != "zone-backroom" {
		return fmt.Errorf("task pulls from %s, expected zone-backroom", task.SourceZoneID())
	}
	return nil
}

func (sc *storeContext) theAssignedTaskIsStartedAndConfirmedBy(memberID string) error {
	return sc.startAndConfirmTask(memberID, common.StatusConfirmed)
}

func (sc *storeContext) theAssignedTaskIsStartedAndPartiallyConfirmedBy(memberID string) error {
	return sc.startAndConfirmTask(memberID, common.StatusConfirmedPartial)
}

// startAndConfirmTask walks the single open task through start and confirm
// and checks the confirmation lands with the expected status.
func (sc *storeContext) startAndConfirmTask(memberID string, want common.Status) error {
	if err := sc.ensure(); err != nil {
		return err
	}
	open, err := sc.engine.Tasks.FindOpen(context.Background())
	if err != nil {
		return err
	}
	if len(open) != 1 {
		return fmt.Errorf("%d tasks are open, expected exactly one", len(open))
	}
	task := open[0]
	if task.AssignedStaffID() != memberID {
		return fmt.Errorf("task is assigned to %q, expected %q", task.AssignedStaffID(), memberID)
	}

	started, err := send[*planningCommands.StartTaskResponse](sc, &planningCommands.StartTaskCommand{
		TaskID:  task.ID(),
		StaffID: memberID,
	})
	if err != nil {
		return err
	}
	if started.Status != common.StatusStarted {
		return fmt.Errorf("start returned %s", started.Status)
	}

	confirmed, err := send[*planningCommands.ConfirmTaskResponse](sc, &planningCommands.ConfirmTaskCommand{
		TaskID:      task.ID(),
		ConfirmedBy: memberID,
	})
	if err != nil {
		return err
	}
	if confirmed.Status != want {
		return fmt.Errorf("confirm returned %s, expected %s", confirmed.Status, want)
	}
	return nil
}

func (sc *storeContext) theRulesTemplateIsDeleted() error {
	if err := sc.ensure(); err != nil {
		return err
	}
	active, err := sc.engine.Templates.FindActive(context.Background())
	if err != nil {
		return err
	}
	if len(active) != 1 {
		return fmt.Errorf("%d templates are active, expected exactly one", len(active))
	}
	response, err := send[*ruleCommands.DeleteRuleTemplateResponse](sc, &ruleCommands.DeleteRuleTemplateCommand{
		TemplateID: active[0].ID(),
	})
	if err != nil {
		return err
	}
	if response.Status != common.StatusAccepted {
		return fmt.Errorf("template delete returned %s", response.Status)
	}
	return nil
}

// InitializeReplenishmentScenario registers the rule and task steps.
func InitializeReplenishmentScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^a min (\d+) max (\d+) rule is installed for "([^"]*)" on the sales floor$`, store.aRuleIsInstalled)
	ctx.Step(`^an open task requests (\d+) units of "([^"]*)" from the backroom$`, store.anOpenTaskRequestsFromTheBackroom)
	ctx.Step(`^the assigned task is started and confirmed by "([^"]*)"$`, store.theAssignedTaskIsStartedAndConfirmedBy)
	ctx.Step(`^the assigned task is started and partially confirmed by "([^"]*)"$`, store.theAssignedTaskIsStartedAndPartiallyConfirmedBy)
	ctx.Step(`^the rule's template is deleted$`, store.theRulesTemplateIsDeleted)
}
